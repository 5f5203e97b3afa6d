package dispatch

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/dshills/glideshow/internal/action"
	"github.com/dshills/glideshow/internal/input/hotkey"
)

// registerBuiltins registers every built-in action plus one action per
// discovered external tool. A duplicate registration here is a bug and
// aborts startup.
func (d *Dispatcher) registerBuiltins() error {
	defs := []*action.Definition{
		{
			Name:        "navigate_next",
			Description: "Move to the next visible resource",
			Category:    action.CategoryNavigation,
			Handler:     d.navigateHandler(1),
		},
		{
			Name:        "navigate_previous",
			Description: "Move to the previous visible resource",
			Category:    action.CategoryNavigation,
			Handler:     d.navigateHandler(-1),
		},
		{
			Name:        "toggle_pause",
			Description: "Pause or resume auto-advance",
			Category:    action.CategoryPlayback,
			Handler:     togglePause,
		},
		{
			Name:        "toggle_repeat",
			Description: "Toggle wrapping at the ends of the list",
			Category:    action.CategoryPlayback,
			Handler:     toggleRepeat,
		},
		{
			Name:        "toggle_shuffle",
			Description: "Toggle shuffled traversal",
			Category:    action.CategoryPlayback,
			Handler:     toggleShuffle,
		},
		{
			Name:        "increase_speed",
			Description: "Lengthen the auto-advance interval by one step",
			Category:    action.CategoryPlayback,
			Handler:     d.speedHandler(1),
		},
		{
			Name:        "decrease_speed",
			Description: "Shorten the auto-advance interval by one step",
			Category:    action.CategoryPlayback,
			Handler:     d.speedHandler(-1),
		},
		{
			Name:        "toggle_fullscreen",
			Description: "Ask the client to toggle fullscreen display",
			Category:    action.CategoryDisplay,
			Handler:     displayEcho("fullscreen"),
		},
		{
			Name:        "toggle_picture_in_picture",
			Description: "Ask the client to toggle picture-in-picture display",
			Category:    action.CategoryDisplay,
			Handler:     displayEcho("picture_in_picture"),
		},
		{
			Name:        "show_help",
			Description: "Open the help overlay and switch to the help context",
			Category:    action.CategoryDisplay,
			Handler:     switchContext("help"),
		},
		{
			Name:        "close_help",
			Description: "Close the help overlay and return to browsing",
			Category:    action.CategoryDisplay,
			Handler:     switchContext("browsing"),
		},
		{
			Name:        "remember",
			Description: "Append the current resource path to the remember file",
			Category:    action.CategoryAnnotation,
			Handler:     d.rememberHandler(),
		},
		{
			Name:        "note",
			Description: "Append a note about the current resource to the notes file",
			Category:    action.CategoryAnnotation,
			Params: []action.Param{
				{Name: "text", Type: action.ParamString, Required: true, Description: "note text"},
			},
			Handler: d.noteHandler(),
		},
		{
			Name:        "set_hotkey",
			Description: "Bind a key to an action in a context at runtime",
			Category:    action.CategoryMapping,
			Params: []action.Param{
				{Name: "context", Type: action.ParamString, Required: true, Description: "mapping context"},
				{Name: "key", Type: action.ParamString, Required: true, Description: "raw key name"},
				{Name: "action", Type: action.ParamString, Required: true, Description: "action to bind"},
			},
			Handler: d.remapHandler("hotkeys"),
		},
		{
			Name:        "set_gesture",
			Description: "Bind a gesture to an action in a context at runtime",
			Category:    action.CategoryMapping,
			Params: []action.Param{
				{Name: "context", Type: action.ParamString, Required: true, Description: "mapping context"},
				{Name: "gesture", Type: action.ParamString, Required: true, Description: "gesture token"},
				{Name: "action", Type: action.ParamString, Required: true, Description: "action to bind"},
			},
			Handler: d.remapHandler("gestures"),
		},
	}

	var suffixes []string
	for suffix := range d.tools {
		suffixes = append(suffixes, suffix)
	}
	sort.Strings(suffixes)
	for _, suffix := range suffixes {
		tool := d.tools[suffix]
		defs = append(defs, &action.Definition{
			Name:        tool.ActionName(),
			Description: fmt.Sprintf("Run external tool %s against the current resource", tool.Suffix),
			Category:    action.CategoryTool,
			Handler:     d.toolHandler(tool),
		})
	}

	for _, def := range defs {
		if err := d.registry.Register(def); err != nil {
			return err
		}
	}
	return nil
}

// navigateHandler moves through the visible resources. Running past an
// end with repeat off is a no-op, so repeated presses are idempotent.
func (d *Dispatcher) navigateHandler(delta int) action.Handler {
	return func(_ context.Context, view *action.View, _ map[string]any) action.Result {
		patch, moved := advancePatch(view, delta)
		if !moved {
			return action.NoOp("already at the end of the list")
		}
		idx := *patch.CurrentIndex
		return action.Success().
			WithData("current_index", idx).
			WithPatch(patch)
	}
}

func togglePause(_ context.Context, view *action.View, _ map[string]any) action.Result {
	paused := !view.Paused
	return action.Success().
		WithData("paused", paused).
		WithPatch(&action.StatePatch{Paused: &paused, ResetTimer: true})
}

func toggleRepeat(_ context.Context, view *action.View, _ map[string]any) action.Result {
	repeat := !view.Repeat
	return action.Success().
		WithData("repeat", repeat).
		WithPatch(&action.StatePatch{Repeat: &repeat})
}

func toggleShuffle(_ context.Context, view *action.View, _ map[string]any) action.Result {
	shuffle := !view.Shuffle
	return action.Success().
		WithData("shuffle", shuffle).
		WithPatch(&action.StatePatch{Shuffle: &shuffle, ResetTimer: true})
}

// speedHandler steps the auto-advance interval, clamped to the
// configured bounds. Hitting a bound that is already in effect is a
// no-op.
func (d *Dispatcher) speedHandler(direction int) action.Handler {
	return func(_ context.Context, view *action.View, _ map[string]any) action.Result {
		step := d.cfg.Float("slideshow.speed_step", 1.0)
		min := d.cfg.Float("slideshow.min_speed", 0.5)
		max := d.cfg.Float("slideshow.max_speed", 60.0)

		speed := view.SpeedSeconds + float64(direction)*step
		if speed < min {
			speed = min
		}
		if speed > max {
			speed = max
		}
		if speed == view.SpeedSeconds {
			return action.NoOp("speed already at %.1fs", speed)
		}
		return action.Success().
			WithData("speed_seconds", speed).
			WithPatch(&action.StatePatch{SpeedSeconds: &speed, ResetTimer: true})
	}
}

// displayEcho acknowledges a display intent the client executes itself.
// The server holds no fullscreen or picture-in-picture state.
func displayEcho(intent string) action.Handler {
	return func(_ context.Context, _ *action.View, _ map[string]any) action.Result {
		return action.Success().WithData("display_intent", intent)
	}
}

func switchContext(target string) action.Handler {
	return func(_ context.Context, view *action.View, _ map[string]any) action.Result {
		if view.Context == target {
			return action.NoOp("already in context %q", target)
		}
		ctx := target
		return action.Success().
			WithData("context", ctx).
			WithPatch(&action.StatePatch{Context: &ctx})
	}
}

func (d *Dispatcher) rememberHandler() action.Handler {
	return func(_ context.Context, view *action.View, _ map[string]any) action.Result {
		desc, ok := view.Current()
		if !ok {
			return action.Failuref(action.KindNotFound, "no current resource")
		}
		path := d.cfg.String("slideshow.remember_file", "remember.txt")
		if err := appendLine(path, desc.AbsPath); err != nil {
			return action.Failure(action.WrapError(action.KindConfig, err,
				"writing remember file %s", path))
		}
		return action.Success().
			WithMessage("remembered %s", desc.BaseName()).
			WithData("path", desc.AbsPath)
	}
}

func (d *Dispatcher) noteHandler() action.Handler {
	return func(_ context.Context, view *action.View, params map[string]any) action.Result {
		text, _ := action.StringParam(params, "text")
		if strings.TrimSpace(text) == "" {
			return action.Failuref(action.KindValidation, "note text is empty")
		}
		desc, ok := view.Current()
		if !ok {
			return action.Failuref(action.KindNotFound, "no current resource")
		}
		path := d.cfg.String("slideshow.notes_file", "slideshow_notes.txt")
		line := desc.AbsPath + "\t" + strings.ReplaceAll(text, "\n", " ")
		if err := appendLine(path, line); err != nil {
			return action.Failure(action.WrapError(action.KindConfig, err,
				"writing notes file %s", path))
		}
		return action.Success().
			WithMessage("noted %s", desc.BaseName()).
			WithData("path", desc.AbsPath)
	}
}

// remapHandler rebinds a token to an action at runtime. The binding
// lands in the runtime configuration layer, so it overrides file and
// default bindings for every session immediately without touching them.
func (d *Dispatcher) remapHandler(kind string) action.Handler {
	tokenParam := "key"
	if kind == "gestures" {
		tokenParam = "gesture"
	}
	return func(_ context.Context, _ *action.View, params map[string]any) action.Result {
		mappingContext, _ := action.StringParam(params, "context")
		rawToken, _ := action.StringParam(params, tokenParam)
		actionName, _ := action.StringParam(params, "action")

		if !d.cfg.HasContext(kind, mappingContext) {
			return action.Failuref(action.KindValidation,
				"unknown %s context %q", kind, mappingContext)
		}
		if !d.registry.Has(actionName) {
			return action.Failuref(action.KindNotFound, "unknown action %q", actionName)
		}

		token := rawToken
		if kind == "hotkeys" {
			token = hotkey.Normalize(rawToken, nil)
		}
		// Dots and wildcard characters have path meaning in the
		// configuration namespace, so they cannot appear in a token.
		if token == "" || strings.ContainsAny(token, `.*?\`) {
			return action.Failuref(action.KindValidation, "invalid token %q", rawToken)
		}

		path := kind + "." + mappingContext + "." + token
		if err := d.cfg.Set(path, actionName); err != nil {
			return action.Failure(action.WrapError(action.KindConfig, err,
				"setting %s", path))
		}
		return action.Success().
			WithData("context", mappingContext).
			WithData("token", token).
			WithData("action", actionName)
	}
}

func (d *Dispatcher) toolHandler(tool Tool) action.Handler {
	timeout := time.Duration(d.cfg.Float("external_tools.timeout_seconds", 30)) * time.Second
	return func(ctx context.Context, view *action.View, _ map[string]any) action.Result {
		return runTool(ctx, tool, view, timeout)
	}
}

// appendLine appends a line to a file, creating it if needed.
func appendLine(path, line string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(line + "\n")
	return err
}
