package action

import (
	"errors"
	"testing"

	"github.com/dshills/glideshow/internal/resource"
)

func TestValidateParams(t *testing.T) {
	def := &Definition{
		Name: "note",
		Params: []Param{
			{Name: "text", Type: ParamString, Required: true},
			{Name: "rating", Type: ParamNumber},
			{Name: "pinned", Type: ParamBool},
		},
	}

	tests := []struct {
		name    string
		params  map[string]any
		wantErr bool
	}{
		{"all valid", map[string]any{"text": "hi", "rating": 4.5, "pinned": true}, false},
		{"required only", map[string]any{"text": "hi"}, false},
		{"int accepted as number", map[string]any{"text": "hi", "rating": 4}, false},
		{"missing required", map[string]any{"rating": 1.0}, true},
		{"wrong string type", map[string]any{"text": 42}, true},
		{"wrong number type", map[string]any{"text": "hi", "rating": "high"}, true},
		{"wrong bool type", map[string]any{"text": "hi", "pinned": "yes"}, true},
		{"unknown parameter", map[string]any{"text": "hi", "bogus": 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := def.ValidateParams(tt.params)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateParams(%v) error = %v, wantErr %v", tt.params, err, tt.wantErr)
			}
			if err != nil && KindOf(err) != KindValidation {
				t.Errorf("error kind = %s, want validation", KindOf(err))
			}
		})
	}
}

func TestErrorKindAndUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := WrapError(KindExternalTool, cause, "tool %s", "5")

	if KindOf(err) != KindExternalTool {
		t.Errorf("KindOf = %s, want external_tool", KindOf(err))
	}
	if !errors.Is(err, cause) {
		t.Error("wrapped cause not reachable through errors.Is")
	}

	// Unclassified errors default to validation at the transport edge.
	if KindOf(errors.New("plain")) != KindValidation {
		t.Error("plain error did not default to validation kind")
	}
}

func TestResultBuilders(t *testing.T) {
	r := Success().WithMessage("moved to %d", 3).WithData("current_index", 3)
	if !r.IsSuccess() || r.Message != "moved to 3" || r.Data["current_index"] != 3 {
		t.Errorf("unexpected result: %+v", r)
	}

	n := NoOp("at end")
	if n.Status != StatusNoOp || n.IsSuccess() {
		t.Errorf("NoOp status = %s", n.Status)
	}

	f := Failuref(KindNotFound, "missing")
	if f.Status != StatusFailure || KindOf(f.Error) != KindNotFound {
		t.Errorf("unexpected failure result: %+v", f)
	}
}

func TestViewCurrent(t *testing.T) {
	list := resource.NewList([]resource.Descriptor{
		{Name: "a.jpg"},
		{Name: "b.jpg"},
	})

	v := &View{CurrentIndex: 1, Resources: list}
	desc, ok := v.Current()
	if !ok || desc.Name != "b.jpg" {
		t.Errorf("Current() = %v, %v; want b.jpg", desc, ok)
	}

	for _, tt := range []*View{
		{CurrentIndex: -1, Resources: list},
		{CurrentIndex: 2, Resources: list},
		{CurrentIndex: 0},
	} {
		if _, ok := tt.Current(); ok {
			t.Errorf("Current() ok for index %d (resources=%v)", tt.CurrentIndex, tt.Resources != nil)
		}
	}
}

func TestStatePatchEmpty(t *testing.T) {
	if !(&StatePatch{}).Empty() {
		t.Error("zero patch not empty")
	}
	var nilPatch *StatePatch
	if !nilPatch.Empty() {
		t.Error("nil patch not empty")
	}

	idx := 1
	if (&StatePatch{CurrentIndex: &idx}).Empty() {
		t.Error("index patch reported empty")
	}
	if (&StatePatch{ResetTimer: true}).Empty() {
		t.Error("timer patch reported empty")
	}
}
