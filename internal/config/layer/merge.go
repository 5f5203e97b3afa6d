package layer

import "strings"

// DeepMerge combines base and overlay into a new map. Neither input is
// mutated. Where both values for a key are nested maps the merge recurses;
// otherwise the overlay value replaces the base value wholesale (slices
// are replaced, never concatenated).
func DeepMerge(base, overlay map[string]any) map[string]any {
	result := cloneMap(base)
	if result == nil {
		result = make(map[string]any)
	}
	if overlay == nil {
		return result
	}

	for key, overlayVal := range overlay {
		baseVal, exists := result[key]
		if !exists {
			result[key] = cloneValue(overlayVal)
			continue
		}

		overlayMap, overlayIsMap := overlayVal.(map[string]any)
		baseMap, baseIsMap := baseVal.(map[string]any)
		if overlayIsMap && baseIsMap {
			result[key] = DeepMerge(baseMap, overlayMap)
		} else {
			result[key] = cloneValue(overlayVal)
		}
	}

	return result
}

// cloneValue creates a deep copy of a value.
func cloneValue(val any) any {
	switch v := val.(type) {
	case map[string]any:
		return cloneMap(v)
	case []any:
		return cloneSlice(v)
	default:
		return val
	}
}

// GetByPath retrieves a value from a nested map using a dot-separated path.
func GetByPath(data map[string]any, path string) (any, bool) {
	if data == nil {
		return nil, false
	}

	parts := strings.Split(path, ".")
	current := any(data)

	for _, part := range parts {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}

		val, exists := m[part]
		if !exists {
			return nil, false
		}

		current = val
	}

	return current, true
}

// SetByPath sets a value in a nested map using a dot-separated path.
// Creates intermediate maps as needed.
func SetByPath(data map[string]any, path string, value any) {
	if data == nil {
		return
	}

	parts := strings.Split(path, ".")
	current := data

	for i := 0; i < len(parts)-1; i++ {
		part := parts[i]
		if next, ok := current[part].(map[string]any); ok {
			current = next
		} else {
			next := make(map[string]any)
			current[part] = next
			current = next
		}
	}

	current[parts[len(parts)-1]] = value
}

// DeleteByPath removes a value from a nested map using a dot-separated path.
// Returns true if the value was found and deleted.
func DeleteByPath(data map[string]any, path string) bool {
	if data == nil {
		return false
	}

	parts := strings.Split(path, ".")
	current := data

	for i := 0; i < len(parts)-1; i++ {
		next, ok := current[parts[i]].(map[string]any)
		if !ok {
			return false
		}
		current = next
	}

	key := parts[len(parts)-1]
	if _, exists := current[key]; exists {
		delete(current, key)
		return true
	}

	return false
}
