package layer

// Standard priority levels for configuration layers.
// Higher values override lower values during merging.
const (
	// PriorityBuiltin is the lowest priority for built-in defaults.
	PriorityBuiltin = 0

	// PriorityFile is for the first discovered configuration file.
	PriorityFile = 100

	// PriorityArgs is for explicit caller-supplied overrides.
	PriorityArgs = 200

	// PriorityRuntime is the highest priority for runtime remap overrides.
	PriorityRuntime = 1000
)

// DefaultPriority returns the default priority for a given source.
func DefaultPriority(source Source) int {
	switch source {
	case SourceBuiltin:
		return PriorityBuiltin
	case SourceFile:
		return PriorityFile
	case SourceArgs:
		return PriorityArgs
	case SourceRuntime:
		return PriorityRuntime
	default:
		return PriorityBuiltin
	}
}

// StandardLayerNames defines standard names for configuration layers.
var StandardLayerNames = map[Source]string{
	SourceBuiltin: "defaults",
	SourceFile:    "file",
	SourceArgs:    "arguments",
	SourceRuntime: "runtime",
}

// StandardLayerName returns the standard name for a source.
func StandardLayerName(source Source) string {
	if name, ok := StandardLayerNames[source]; ok {
		return name
	}
	return "unknown"
}
