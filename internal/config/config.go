// Package config provides layered configuration resolution for glideshow.
//
// Configuration is resolved once at startup from built-in defaults, an
// optional YAML file, and caller-supplied overrides. Runtime remaps are
// layered on top without touching the lower layers, so every read sees a
// consistent snapshot and the provenance of any value stays queryable.
package config

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/glideshow/internal/config/layer"
)

// Options controls configuration resolution.
type Options struct {
	// FilePath is an explicit configuration file path. Empty means
	// discover one in the working directory, then the home directory.
	FilePath string

	// Overrides are caller-supplied values (typically from command-line
	// flags) keyed by dot-separated setting path.
	Overrides map[string]any
}

// Config is the resolved configuration. Reads are served from an
// immutable JSON snapshot; runtime remaps swap in a new snapshot
// atomically under the lock.
type Config struct {
	mu       sync.RWMutex
	manager  *layer.Manager
	snapshot []byte // JSON document of the merged configuration
	filePath string // discovered file path, "" if none
}

// Resolve builds a Config from defaults, the discovered file, and any
// overrides. A missing file is not an error unless it was named
// explicitly; a malformed file is fatal.
func Resolve(opts Options) (*Config, error) {
	manager := layer.NewManager()

	defaults, err := defaultData()
	if err != nil {
		return nil, fmt.Errorf("built-in defaults: %w", err)
	}
	manager.AddLayer(layer.NewLayerWithData(
		layer.StandardLayerName(layer.SourceBuiltin),
		layer.SourceBuiltin, layer.PriorityBuiltin, defaults))

	path, err := DiscoverFile(opts.FilePath)
	if err != nil {
		return nil, err
	}
	if path != "" {
		fileData, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		manager.AddLayer(layer.NewLayerWithData(
			layer.StandardLayerName(layer.SourceFile),
			layer.SourceFile, layer.PriorityFile, fileData))
	}

	if len(opts.Overrides) > 0 {
		args := layer.NewLayer(layer.StandardLayerName(layer.SourceArgs),
			layer.SourceArgs, layer.PriorityArgs)
		for p, v := range opts.Overrides {
			layer.SetByPath(args.Data, p, v)
		}
		manager.AddLayer(args)
	}

	cfg := &Config{manager: manager, filePath: path}
	if err := cfg.refreshSnapshot(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// refreshSnapshot re-merges all layers and replaces the JSON snapshot.
// Caller must hold the write lock, or own the Config exclusively.
func (c *Config) refreshSnapshot() error {
	merged := c.manager.Merge()
	raw, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("encoding merged config: %w", err)
	}
	c.snapshot = raw
	return nil
}

// FilePath returns the path of the loaded configuration file, or "".
func (c *Config) FilePath() string {
	return c.filePath
}

// Raw returns a copy of the merged configuration as a JSON document.
func (c *Config) Raw() []byte {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]byte, len(c.snapshot))
	copy(out, c.snapshot)
	return out
}

// Get returns the value at a dot-separated path. The result reports
// Exists() false when the path is absent.
func (c *Config) Get(path string) gjson.Result {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return gjson.GetBytes(c.snapshot, path)
}

// Lookup is like Get but returns ErrSettingNotFound for absent paths.
func (c *Config) Lookup(path string) (gjson.Result, error) {
	res := c.Get(path)
	if !res.Exists() {
		return res, fmt.Errorf("%w: %s", ErrSettingNotFound, path)
	}
	return res, nil
}

// String returns the string at path, or def when absent.
func (c *Config) String(path, def string) string {
	if res := c.Get(path); res.Exists() {
		return res.String()
	}
	return def
}

// Float returns the float at path, or def when absent.
func (c *Config) Float(path string, def float64) float64 {
	if res := c.Get(path); res.Exists() {
		return res.Float()
	}
	return def
}

// Int returns the integer at path, or def when absent.
func (c *Config) Int(path string, def int) int {
	if res := c.Get(path); res.Exists() {
		return int(res.Int())
	}
	return def
}

// Bool returns the boolean at path, or def when absent.
func (c *Config) Bool(path string, def bool) bool {
	if res := c.Get(path); res.Exists() {
		return res.Bool()
	}
	return def
}

// Set applies a runtime override at path. The override lands in the
// runtime layer and the snapshot is patched in place, so concurrent
// readers keep seeing either the old or the new document, never a
// partially updated one.
func (c *Config) Set(path string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.manager.SetRuntime(path, value)
	updated, err := sjson.SetBytes(c.snapshot, path, value)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidPath, path)
	}
	c.snapshot = updated
	return nil
}

// Unset removes a runtime override, revealing the value from lower
// layers again. Returns false when no override existed at path.
func (c *Config) Unset(path string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.manager.DeleteRuntime(path) {
		return false, nil
	}
	// The lower-layer value must reappear, so a full re-merge is needed
	// rather than a JSON delete.
	if err := c.refreshSnapshot(); err != nil {
		return true, err
	}
	return true, nil
}

// WhichLayer reports which layer supplies the effective value at path.
func (c *Config) WhichLayer(path string) string {
	return c.manager.WhichLayer(path)
}

// Mapping returns the effective token-to-action mapping for a kind
// ("hotkeys" or "gestures") in a context. Context-specific entries
// override entries from the "common" section.
func (c *Config) Mapping(kind, context string) map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(map[string]string)
	collect := func(section string) {
		gjson.GetBytes(c.snapshot, kind+"."+section).ForEach(func(key, value gjson.Result) bool {
			if value.Type == gjson.String {
				result[key.String()] = value.String()
			}
			return true
		})
	}
	collect("common")
	if context != "" && context != "common" {
		collect(context)
	}
	return result
}

// HasContext reports whether a mapping context is configured for kind.
// The "common" section always exists as a context. The "thresholds"
// section under gestures holds tuning numbers, not bindings, and is
// never a context.
func (c *Config) HasContext(kind, context string) bool {
	if context == "common" {
		return true
	}
	if context == "thresholds" {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return gjson.GetBytes(c.snapshot, kind+"."+context).IsObject()
}
