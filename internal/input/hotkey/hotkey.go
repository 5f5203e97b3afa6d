// Package hotkey normalizes raw key input into canonical tokens and
// resolves tokens to action names through per-context mappings.
//
// Canonical token form: modifiers in ctrl, alt, shift, meta order, each
// followed by "+", then the lowercase key name. Examples: "arrowright",
// "ctrl+shift+s", "alt+enter".
package hotkey

import "strings"

// Modifier represents a keyboard modifier.
type Modifier uint8

const (
	ModCtrl Modifier = 1 << iota
	ModAlt
	ModShift
	ModMeta
)

// modifierAliases maps the raw modifier names clients send to flags.
// Keys are compared case-insensitively.
var modifierAliases = map[string]Modifier{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"alt":     ModAlt,
	"option":  ModAlt,
	"shift":   ModShift,
	"meta":    ModMeta,
	"cmd":     ModMeta,
	"command": ModMeta,
	"super":   ModMeta,
	"win":     ModMeta,
}

// specialKeys maps raw key names to canonical tokens. Lookup happens
// before lowercasing so browser-style names ("ArrowRight") and short
// names ("Right") land on the same token.
var specialKeys = map[string]string{
	"arrowright": "arrowright",
	"right":      "arrowright",
	"arrowleft":  "arrowleft",
	"left":       "arrowleft",
	"arrowup":    "arrowup",
	"up":         "arrowup",
	"arrowdown":  "arrowdown",
	"down":       "arrowdown",
	"pageup":     "pageup",
	"pgup":       "pageup",
	"pagedown":   "pagedown",
	"pgdn":       "pagedown",
	"home":       "home",
	"end":        "end",
	"enter":      "enter",
	"return":     "enter",
	"escape":     "escape",
	"esc":        "escape",
	" ":          "space",
	"space":      "space",
	"spacebar":   "space",
	"tab":        "tab",
	"backspace":  "backspace",
	"delete":     "delete",
	"del":        "delete",
	"insert":     "insert",
	"ins":        "insert",
}

// Normalize converts a raw key and its modifiers into the canonical
// token. Normalization is total: unrecognized keys are lowercased and
// passed through, unknown modifier names are ignored, and duplicate
// modifiers collapse. The same physical input always yields the same
// token regardless of the order modifiers were reported in.
func Normalize(rawKey string, modifiers []string) string {
	var mods Modifier
	for _, m := range modifiers {
		if flag, ok := modifierAliases[strings.ToLower(strings.TrimSpace(m))]; ok {
			mods |= flag
		}
	}

	key := canonicalKey(rawKey)

	var b strings.Builder
	if mods&ModCtrl != 0 {
		b.WriteString("ctrl+")
	}
	if mods&ModAlt != 0 {
		b.WriteString("alt+")
	}
	if mods&ModShift != 0 {
		b.WriteString("shift+")
	}
	if mods&ModMeta != 0 {
		b.WriteString("meta+")
	}
	b.WriteString(key)
	return b.String()
}

// canonicalKey maps a raw key name to its canonical lowercase form.
func canonicalKey(raw string) string {
	lower := strings.ToLower(raw)
	if canonical, ok := specialKeys[lower]; ok {
		return canonical
	}
	// F-keys arrive as "F1".."F24"; lowercasing is the whole job.
	return lower
}
