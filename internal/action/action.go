// Package action defines the action abstraction at the core of
// glideshow: named operations with declared parameters, executed by
// handlers against an immutable view of session state.
package action

// ParamType describes the expected type of a declared parameter.
type ParamType string

const (
	// ParamString accepts any string value.
	ParamString ParamType = "string"
	// ParamNumber accepts integers and floats.
	ParamNumber ParamType = "number"
	// ParamBool accepts booleans.
	ParamBool ParamType = "bool"
)

// Param declares a single action parameter.
type Param struct {
	// Name is the parameter key in the params map.
	Name string `json:"name"`
	// Type is the expected value type.
	Type ParamType `json:"type"`
	// Required marks parameters that must be present.
	Required bool `json:"required"`
	// Description documents the parameter for the actions listing.
	Description string `json:"description,omitempty"`
}

// Category groups actions for the actions listing.
type Category string

const (
	CategoryNavigation Category = "navigation"
	CategoryPlayback   Category = "playback"
	CategoryDisplay    Category = "display"
	CategoryAnnotation Category = "annotation"
	CategoryMapping    Category = "mapping"
	CategoryTool       Category = "tool"
)

// Definition is the immutable metadata for a registered action.
type Definition struct {
	// Name is the unique action identifier, e.g. "navigate_next".
	Name string `json:"name"`
	// Description is a one-line human-readable summary.
	Description string `json:"description"`
	// Category groups the action in listings.
	Category Category `json:"category"`
	// Params declares the accepted parameters.
	Params []Param `json:"params,omitempty"`
	// Handler executes the action. Not serialized.
	Handler Handler `json:"-"`
}

// ValidateParams checks params against the declared schema. Unknown
// keys are rejected so typos surface instead of being silently dropped.
func (d *Definition) ValidateParams(params map[string]any) error {
	declared := make(map[string]Param, len(d.Params))
	for _, p := range d.Params {
		declared[p.Name] = p
	}

	for _, p := range d.Params {
		val, ok := params[p.Name]
		if !ok {
			if p.Required {
				return NewError(KindValidation, "action %q: missing required parameter %q", d.Name, p.Name)
			}
			continue
		}
		if err := checkType(p, val); err != nil {
			return err
		}
	}

	for key := range params {
		if _, ok := declared[key]; !ok {
			return NewError(KindValidation, "action %q: unknown parameter %q", d.Name, key)
		}
	}

	return nil
}

func checkType(p Param, val any) error {
	switch p.Type {
	case ParamString:
		if _, ok := val.(string); !ok {
			return NewError(KindValidation, "parameter %q: expected string, got %T", p.Name, val)
		}
	case ParamNumber:
		switch val.(type) {
		case int, int64, float64:
		default:
			return NewError(KindValidation, "parameter %q: expected number, got %T", p.Name, val)
		}
	case ParamBool:
		if _, ok := val.(bool); !ok {
			return NewError(KindValidation, "parameter %q: expected bool, got %T", p.Name, val)
		}
	}
	return nil
}

// NumberParam extracts a numeric parameter as float64.
func NumberParam(params map[string]any, name string) (float64, bool) {
	switch v := params[name].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// StringParam extracts a string parameter.
func StringParam(params map[string]any, name string) (string, bool) {
	s, ok := params[name].(string)
	return s, ok
}
