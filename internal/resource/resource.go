// Package resource provides the shared, immutable list of browsable resources.
package resource

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Descriptor describes a single browsable resource.
type Descriptor struct {
	// Name is the file name including extension.
	Name string

	// Path is the path the resource was discovered under.
	Path string

	// AbsPath is the absolute form of Path.
	AbsPath string

	// Size is the file size in bytes.
	Size int64

	// Width and Height are the pixel dimensions, or 0 when unknown.
	Width  int
	Height int
}

// BaseName returns the file name without its extension.
func (d Descriptor) BaseName() string {
	return strings.TrimSuffix(d.Name, filepath.Ext(d.Name))
}

// Extension returns the file extension including the leading dot.
func (d Descriptor) Extension() string {
	return filepath.Ext(d.Name)
}

// Dimensions returns a "WxH" string, or "N/A" when unknown.
func (d Descriptor) Dimensions() string {
	if d.Width <= 0 || d.Height <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// HumanSize returns the byte size formatted as B, KB, or MB.
func (d Descriptor) HumanSize() string {
	switch {
	case d.Size < 1024:
		return fmt.Sprintf("%d B", d.Size)
	case d.Size < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(d.Size)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(d.Size)/(1024*1024))
	}
}

// List is an ordered, immutable-after-load sequence of resources.
// It is shared read-only by all sessions; a reload replaces the whole
// list reference, it never edits one in place.
type List struct {
	items []Descriptor
}

// NewList creates a list from descriptors. The slice is copied so later
// mutation of the argument cannot reach the list.
func NewList(items []Descriptor) *List {
	copied := make([]Descriptor, len(items))
	copy(copied, items)
	return &List{items: copied}
}

// Len returns the number of resources.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.items)
}

// At returns the descriptor at index i.
// Returns a zero Descriptor and false if i is out of range.
func (l *List) At(i int) (Descriptor, bool) {
	if l == nil || i < 0 || i >= len(l.items) {
		return Descriptor{}, false
	}
	return l.items[i], true
}

// All returns a copy of every descriptor in order.
func (l *List) All() []Descriptor {
	if l == nil {
		return nil
	}
	result := make([]Descriptor, len(l.items))
	copy(result, l.items)
	return result
}
