package core

import (
	"strings"
	"sync"
)

// Marker is a named tag attached to log events. Markers may reference
// other markers. They are carried through to formatters and appenders and
// never take part in filtering.
type Marker struct {
	name string

	mu   sync.RWMutex
	refs []*Marker
}

var markers sync.Map // map[string]*Marker

// graphMu serializes changes to marker references so the cycle check in
// Add and the append it guards see the same graph.
var graphMu sync.Mutex

// GetMarker returns the process-wide marker with the given name, creating
// it on first use.
func GetMarker(name string) *Marker {
	if m, ok := markers.Load(name); ok {
		return m.(*Marker)
	}
	m, _ := markers.LoadOrStore(name, &Marker{name: name})
	return m.(*Marker)
}

// NewDetachedMarker returns a marker that is not interned by GetMarker.
func NewDetachedMarker(name string) *Marker {
	return &Marker{name: name}
}

// Name returns the marker name
func (m *Marker) Name() string {
	return m.name
}

// Add makes ref a reference of m. Adding a marker twice, or a marker that
// already reaches m (including m itself), is a no-op.
func (m *Marker) Add(ref *Marker) {
	if ref == nil {
		return
	}
	graphMu.Lock()
	defer graphMu.Unlock()

	if m.Contains(ref.name) || ref.Contains(m.name) {
		return
	}
	m.mu.Lock()
	m.refs = append(m.refs, ref)
	m.mu.Unlock()
}

// Remove drops ref from the references of m.
func (m *Marker) Remove(ref *Marker) bool {
	graphMu.Lock()
	defer graphMu.Unlock()
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.refs {
		if r == ref {
			m.refs = append(m.refs[:i], m.refs[i+1:]...)
			return true
		}
	}
	return false
}

// References returns a copy of the markers referenced by m.
func (m *Marker) References() []*Marker {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Marker, len(m.refs))
	copy(out, m.refs)
	return out
}

// Contains reports whether m is, or transitively references, a marker
// with the given name.
func (m *Marker) Contains(name string) bool {
	if m.name == name {
		return true
	}
	for _, r := range m.References() {
		if r.Contains(name) {
			return true
		}
	}
	return false
}

// String renders "name" or "name [ ref1, ref2 ]".
func (m *Marker) String() string {
	refs := m.References()
	if len(refs) == 0 {
		return m.name
	}
	var b strings.Builder
	b.WriteString(m.name)
	b.WriteString(" [ ")
	for i, r := range refs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(r.String())
	}
	b.WriteString(" ]")
	return b.String()
}

// FormatMarkers renders a marker list as "[a, b]", or "" when empty.
func FormatMarkers(ms []*Marker) string {
	if len(ms) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteByte('[')
	for i, m := range ms {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(m.String())
	}
	b.WriteByte(']')
	return b.String()
}
