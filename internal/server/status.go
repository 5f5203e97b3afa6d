package server

import (
	"fmt"
	"strings"
)

// statusPresets are the shorthand status formats selectable as $1-$6.
var statusPresets = map[string]string{
	"$1": "Media {img_idx}/{img_total} {progress_percent}%",
	"$2": "Media {img_idx}/{img_total}",
	"$3": "{img_idx}/{img_total}: {progress_percent}% {img_path}",
	"$4": "Media {img_path}: {img_idx}/{img_total}",
	"$5": "{img_name} - {speed}s",
	"$6": "{img_path} | {progress_percent}% complete",
}

// statusTemplate expands a preset name to its template; anything else
// is already a template and passes through.
func statusTemplate(format string) string {
	if preset, ok := statusPresets[format]; ok {
		return preset
	}
	return format
}

// renderStatus expands {placeholder} tokens in a status format string
// from a state snapshot. Supported placeholders: img_idx, img_total,
// img_name, img_path, speed, progress_percent. Unknown placeholders
// pass through untouched.
func renderStatus(format string, snap map[string]any) string {
	index, _ := snap["current_index"].(int)
	total, _ := snap["total"].(int)
	name, _ := snap["current_name"].(string)
	path, _ := snap["current_path"].(string)
	speed, _ := snap["speed_seconds"].(float64)

	percent := 0
	if total > 0 {
		percent = (index + 1) * 100 / total
	}

	replacer := strings.NewReplacer(
		"{img_idx}", fmt.Sprintf("%d", index+1),
		"{img_total}", fmt.Sprintf("%d", total),
		"{img_name}", name,
		"{img_path}", path,
		"{speed}", fmt.Sprintf("%g", speed),
		"{progress_percent}", fmt.Sprintf("%d", percent),
	)
	return replacer.Replace(format)
}
