package config

import "gopkg.in/yaml.v3"

// defaultConfigYAML is the single source of truth for built-in defaults.
// It doubles as the template written by WriteDefaultConfig.
const defaultConfigYAML = `# glideshow configuration file
# Place this file in the working directory or pass --config to locate it.

# General slideshow settings
slideshow:
  speed: 3.0          # seconds between auto-advances
  min_speed: 0.5      # lowest allowed speed
  max_speed: 60.0     # highest allowed speed
  speed_step: 1.0     # increment used by increase_speed/decrease_speed
  repeat: false       # wrap around at the ends of the list
  shuffle: false      # start sessions shuffled
  paused_on_start: false
  status_format: ""   # e.g. "{img_idx}/{img_total} {progress_percent}%"
  remember_file: "remember.txt"
  notes_file: "slideshow_notes.txt"

# Resource discovery settings
images:
  recursive: false
  exclude_patterns: []
  extensions: []      # additional extensions beyond the defaults

# Control surface settings
web:
  host: "0.0.0.0"
  port: 8000
  max_sessions: 64
  session_idle_seconds: 1800
  sweep_interval_seconds: 60

# External tool discovery
external_tools:
  base_name: "tool"
  search_dir: "."

# Hotkey mappings: canonical key token -> action name.
# Tokens are normalized (lowercase, modifiers in ctrl,alt,shift,meta order,
# each followed by "+").
hotkeys:
  common:
    arrowright: navigate_next
    pagedown: navigate_next
    arrowleft: navigate_previous
    pageup: navigate_previous
    space: toggle_pause
    enter: toggle_pause
    f: toggle_fullscreen
    r: toggle_repeat
    s: toggle_shuffle
    "+": increase_speed
    "=": increase_speed
    "-": decrease_speed
  browsing:
    m: remember
    n: note
    t: toggle_picture_in_picture
    h: show_help
    "0": external_tool_0
    "1": external_tool_1
    "2": external_tool_2
    "3": external_tool_3
    "4": external_tool_4
    "5": external_tool_5
    "6": external_tool_6
    "7": external_tool_7
    "8": external_tool_8
    "9": external_tool_9
  help:
    escape: close_help
    q: close_help

# Gesture mappings: gesture token -> action name.
gestures:
  common:
    swipe_left: navigate_next
    swipe_right: navigate_previous
    swipe_up: increase_speed
    swipe_down: decrease_speed
    double_tap: toggle_pause
    long_press: show_help
  browsing:
    pinch_out: toggle_fullscreen
    pinch_in: toggle_picture_in_picture
    two_finger_swipe_left: external_tool_0
    two_finger_swipe_right: external_tool_1
    three_finger_tap: toggle_shuffle
  help:
    double_tap: close_help
  thresholds:
    swipe_distance: 50
    swipe_duration_ms: 400
    long_press_ms: 500
    double_tap_ms: 300
    double_tap_distance: 30
    pinch_distance: 30
    tap_movement: 10
    multi_tap_duration_ms: 300
`

// defaultData parses the built-in defaults. The default document is a
// compile-time constant; a parse failure here is a programming error.
func defaultData() (map[string]any, error) {
	var data map[string]any
	if err := yaml.Unmarshal([]byte(defaultConfigYAML), &data); err != nil {
		return nil, err
	}
	return normalizeKeys(data), nil
}

// normalizeKeys converts yaml map values (which may decode as
// map[string]any already under yaml.v3, but whose nested values can
// carry non-string-keyed maps from older documents) into the canonical
// map[string]any form used by the layer package.
func normalizeKeys(data map[string]any) map[string]any {
	result := make(map[string]any, len(data))
	for key, val := range data {
		result[key] = normalizeValue(val)
	}
	return result
}

func normalizeValue(val any) any {
	switch v := val.(type) {
	case map[string]any:
		return normalizeKeys(v)
	case map[any]any:
		converted := make(map[string]any, len(v))
		for key, inner := range v {
			if s, ok := key.(string); ok {
				converted[s] = normalizeValue(inner)
			}
		}
		return converted
	case []any:
		result := make([]any, len(v))
		for i, inner := range v {
			result[i] = normalizeValue(inner)
		}
		return result
	default:
		return val
	}
}
