package layer

import (
	"fmt"
	"sort"
	"sync"
)

// Manager manages configuration layers and provides merged access.
type Manager struct {
	mu     sync.RWMutex
	layers []*Layer       // Sorted by priority (ascending)
	merged map[string]any // Cached merged result
	dirty  bool           // Whether merged cache needs refresh
}

// NewManager creates a new layer manager.
func NewManager() *Manager {
	return &Manager{
		layers: make([]*Layer, 0),
		merged: make(map[string]any),
		dirty:  true,
	}
}

// AddLayer adds a layer to the manager.
// Layers are automatically sorted by priority.
func (m *Manager) AddLayer(layer *Layer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.layers = append(m.layers, layer)
	m.sortLayers()
	m.dirty = true
}

// GetLayer returns a layer by name.
func (m *Manager) GetLayer(name string) *Layer {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.findLayer(name)
}

// Layers returns a copy of all layers sorted by priority.
func (m *Manager) Layers() []*Layer {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*Layer, len(m.layers))
	copy(result, m.layers)
	return result
}

// Merge combines all layers into a single configuration map.
// Results are cached until a layer is added or updated.
func (m *Manager) Merge() map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()

	return cloneMap(m.mergedData())
}

// mergedData returns the cached merged data, refreshing if dirty.
// Caller must hold the lock.
func (m *Manager) mergedData() map[string]any {
	if m.dirty || m.merged == nil {
		result := make(map[string]any)
		for _, layer := range m.layers {
			result = DeepMerge(result, layer.Data)
		}
		m.merged = result
		m.dirty = false
	}

	return m.merged
}

// GetEffectiveValue returns the merged value for a setting path.
func (m *Manager) GetEffectiveValue(path string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return GetByPath(m.mergedData(), path)
}

// Set sets a value in a specific layer.
// Returns an error if the layer is not found or is read-only.
func (m *Manager) Set(layerName, path string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	layer := m.findLayer(layerName)
	if layer == nil {
		return fmt.Errorf("layer not found: %s", layerName)
	}

	if layer.ReadOnly {
		return fmt.Errorf("layer is read-only: %s", layerName)
	}

	if layer.Data == nil {
		layer.Data = make(map[string]any)
	}

	SetByPath(layer.Data, path, value)
	m.dirty = true
	return nil
}

// SetRuntime sets a value in the runtime layer, creating it if needed.
// The runtime layer carries remap overrides applied after resolution.
func (m *Manager) SetRuntime(path string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var runtime *Layer
	for _, layer := range m.layers {
		if layer.Source == SourceRuntime {
			runtime = layer
			break
		}
	}

	if runtime == nil {
		runtime = NewLayer(StandardLayerName(SourceRuntime), SourceRuntime, PriorityRuntime)
		m.layers = append(m.layers, runtime)
		m.sortLayers()
	}

	if runtime.Data == nil {
		runtime.Data = make(map[string]any)
	}

	SetByPath(runtime.Data, path, value)
	m.dirty = true
}

// DeleteRuntime removes a runtime override.
// Returns true if the value was found and deleted.
func (m *Manager) DeleteRuntime(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, layer := range m.layers {
		if layer.Source == SourceRuntime {
			if DeleteByPath(layer.Data, path) {
				m.dirty = true
				return true
			}
			return false
		}
	}
	return false
}

// WhichLayer returns the name of the highest-priority layer that provides
// a value for the path, or "" if no layer provides one.
func (m *Manager) WhichLayer(path string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.layers) - 1; i >= 0; i-- {
		if _, ok := GetByPath(m.layers[i].Data, path); ok {
			return m.layers[i].Name
		}
	}
	return ""
}

// sortLayers sorts layers by priority (ascending).
func (m *Manager) sortLayers() {
	sort.Slice(m.layers, func(i, j int) bool {
		return m.layers[i].Priority < m.layers[j].Priority
	})
}

// findLayer finds a layer by name (must be called with lock held).
func (m *Manager) findLayer(name string) *Layer {
	for _, layer := range m.layers {
		if layer.Name == name {
			return layer
		}
	}
	return nil
}
