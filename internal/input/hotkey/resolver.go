package hotkey

// MappingSource provides effective token-to-action mappings per context.
// It is satisfied by the config package.
type MappingSource interface {
	// Mapping returns the merged mapping for a kind and context, with
	// context entries overriding common ones.
	Mapping(kind, context string) map[string]string
	// HasContext reports whether a context is configured for a kind.
	HasContext(kind, context string) bool
}

// Resolver resolves canonical key tokens to action names.
type Resolver struct {
	source MappingSource
}

// NewResolver creates a resolver backed by a mapping source.
func NewResolver(source MappingSource) *Resolver {
	return &Resolver{source: source}
}

// Resolve looks up the action bound to a token in the given context.
// Context-specific bindings shadow common ones. Returns "" and false
// when the token is unbound; an unbound token is not an error.
func (r *Resolver) Resolve(context, token string) (string, bool) {
	mapping := r.source.Mapping("hotkeys", context)
	actionName, ok := mapping[token]
	if !ok || actionName == "" {
		return "", false
	}
	return actionName, true
}

// ResolveGesture looks up the action bound to a gesture token.
func (r *Resolver) ResolveGesture(context, token string) (string, bool) {
	mapping := r.source.Mapping("gestures", context)
	actionName, ok := mapping[token]
	if !ok || actionName == "" {
		return "", false
	}
	return actionName, true
}

// KnownContext reports whether a context exists for hotkeys or gestures.
func (r *Resolver) KnownContext(kind, context string) bool {
	return r.source.HasContext(kind, context)
}
