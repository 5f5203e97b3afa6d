package layer

import (
	"reflect"
	"testing"
)

func TestDeepMerge(t *testing.T) {
	tests := []struct {
		name    string
		base    map[string]any
		overlay map[string]any
		want    map[string]any
	}{
		{
			name:    "overlay wins on scalar conflict",
			base:    map[string]any{"speed": 3.0, "repeat": false},
			overlay: map[string]any{"speed": 5.0},
			want:    map[string]any{"speed": 5.0, "repeat": false},
		},
		{
			name: "nested maps merge recursively",
			base: map[string]any{
				"slideshow": map[string]any{"speed": 3.0, "repeat": false},
			},
			overlay: map[string]any{
				"slideshow": map[string]any{"speed": 5.0},
			},
			want: map[string]any{
				"slideshow": map[string]any{"speed": 5.0, "repeat": false},
			},
		},
		{
			name:    "slices are replaced not concatenated",
			base:    map[string]any{"patterns": []any{"a", "b"}},
			overlay: map[string]any{"patterns": []any{"c"}},
			want:    map[string]any{"patterns": []any{"c"}},
		},
		{
			name:    "map replaces scalar",
			base:    map[string]any{"web": "disabled"},
			overlay: map[string]any{"web": map[string]any{"port": 8000}},
			want:    map[string]any{"web": map[string]any{"port": 8000}},
		},
		{
			name:    "nil overlay returns base copy",
			base:    map[string]any{"a": 1},
			overlay: nil,
			want:    map[string]any{"a": 1},
		},
		{
			name:    "nil base returns overlay copy",
			base:    nil,
			overlay: map[string]any{"a": 1},
			want:    map[string]any{"a": 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeepMerge(tt.base, tt.overlay)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DeepMerge() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDeepMergeDoesNotMutateInputs(t *testing.T) {
	base := map[string]any{
		"slideshow": map[string]any{"speed": 3.0},
		"patterns":  []any{"a"},
	}
	overlay := map[string]any{
		"slideshow": map[string]any{"speed": 5.0},
	}

	merged := DeepMerge(base, overlay)

	if got := base["slideshow"].(map[string]any)["speed"]; got != 3.0 {
		t.Errorf("base mutated: speed = %v, want 3.0", got)
	}

	// Mutating the result must not reach back into the inputs.
	merged["slideshow"].(map[string]any)["speed"] = 99.0
	merged["patterns"].([]any)[0] = "z"
	if got := base["slideshow"].(map[string]any)["speed"]; got != 3.0 {
		t.Errorf("base reachable through result: speed = %v, want 3.0", got)
	}
	if got := base["patterns"].([]any)[0]; got != "a" {
		t.Errorf("base slice reachable through result: %v, want a", got)
	}
}

func TestDeepMergeThreeLayers(t *testing.T) {
	defaults := map[string]any{
		"slideshow": map[string]any{"speed": 3.0, "repeat": false, "shuffle": false},
	}
	file := map[string]any{
		"slideshow": map[string]any{"speed": 5.0},
	}
	args := map[string]any{
		"slideshow": map[string]any{"repeat": true},
	}

	got := DeepMerge(DeepMerge(defaults, file), args)
	want := map[string]any{
		"slideshow": map[string]any{"speed": 5.0, "repeat": true, "shuffle": false},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("merged = %v, want %v", got, want)
	}
}

func TestGetByPath(t *testing.T) {
	data := map[string]any{
		"web": map[string]any{
			"port": 8000,
			"tls":  map[string]any{"enabled": false},
		},
	}

	tests := []struct {
		path   string
		want   any
		wantOK bool
	}{
		{"web.port", 8000, true},
		{"web.tls.enabled", false, true},
		{"web.missing", nil, false},
		{"web.port.deeper", nil, false},
		{"missing", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := GetByPath(data, tt.path)
			if ok != tt.wantOK || (ok && !reflect.DeepEqual(got, tt.want)) {
				t.Errorf("GetByPath(%q) = (%v, %v), want (%v, %v)", tt.path, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestSetByPathCreatesIntermediates(t *testing.T) {
	data := map[string]any{}
	SetByPath(data, "hotkeys.browsing.x", "remember")

	got, ok := GetByPath(data, "hotkeys.browsing.x")
	if !ok || got != "remember" {
		t.Errorf("GetByPath after SetByPath = (%v, %v), want (remember, true)", got, ok)
	}
}

func TestDeleteByPath(t *testing.T) {
	data := map[string]any{
		"hotkeys": map[string]any{"common": map[string]any{"f": "toggle_fullscreen"}},
	}

	if !DeleteByPath(data, "hotkeys.common.f") {
		t.Fatal("DeleteByPath returned false for existing path")
	}
	if _, ok := GetByPath(data, "hotkeys.common.f"); ok {
		t.Error("value still present after delete")
	}
	if DeleteByPath(data, "hotkeys.common.f") {
		t.Error("DeleteByPath returned true for missing path")
	}
}

func TestManagerPrecedence(t *testing.T) {
	m := NewManager()
	m.AddLayer(NewLayerWithData("defaults", SourceBuiltin, PriorityBuiltin,
		map[string]any{"slideshow": map[string]any{"speed": 3.0, "repeat": false}}))
	m.AddLayer(NewLayerWithData("file", SourceFile, PriorityFile,
		map[string]any{"slideshow": map[string]any{"speed": 5.0}}))
	m.AddLayer(NewLayerWithData("arguments", SourceArgs, PriorityArgs,
		map[string]any{"slideshow": map[string]any{"repeat": true}}))

	if got, _ := m.GetEffectiveValue("slideshow.speed"); got != 5.0 {
		t.Errorf("speed = %v, want 5.0 (file over defaults)", got)
	}
	if got, _ := m.GetEffectiveValue("slideshow.repeat"); got != true {
		t.Errorf("repeat = %v, want true (args over defaults)", got)
	}

	if got := m.WhichLayer("slideshow.speed"); got != "file" {
		t.Errorf("WhichLayer(speed) = %q, want file", got)
	}
	if got := m.WhichLayer("slideshow.repeat"); got != "arguments" {
		t.Errorf("WhichLayer(repeat) = %q, want arguments", got)
	}
}

func TestManagerRuntimeOverrides(t *testing.T) {
	m := NewManager()
	m.AddLayer(NewLayerWithData("defaults", SourceBuiltin, PriorityBuiltin,
		map[string]any{"hotkeys": map[string]any{"common": map[string]any{"f": "toggle_fullscreen"}}}))

	m.SetRuntime("hotkeys.common.f", "toggle_shuffle")
	if got, _ := m.GetEffectiveValue("hotkeys.common.f"); got != "toggle_shuffle" {
		t.Errorf("runtime override not effective: got %v", got)
	}

	if !m.DeleteRuntime("hotkeys.common.f") {
		t.Fatal("DeleteRuntime returned false")
	}
	if got, _ := m.GetEffectiveValue("hotkeys.common.f"); got != "toggle_fullscreen" {
		t.Errorf("default not restored after delete: got %v", got)
	}
}
