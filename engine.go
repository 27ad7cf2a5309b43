package wallgen

import (
	"errors"
	"sync"
)

// ErrReleased is returned when a released handle is passed to an engine.
var ErrReleased = errors.New("wallgen: handle already released")

// Handle is a path owned by an Engine. Handles hold engine resources until
// Release is called; a released handle reports no elements.
type Handle interface {
	// Elements returns the path's commands in local coordinates.
	Elements() []PathElement
	// Release frees the handle. Calling Release more than once is a no-op.
	Release()
}

// Engine is the geometry capability the contour pipeline runs on: building
// paths, stroking them and subtracting one from another. Every handle an
// Engine returns must be released by the caller.
type Engine interface {
	// Build copies p into the engine. It returns nil for an empty path.
	Build(p *Path) Handle
	// Stroke returns the filled outline of h stroked with style, or nil when
	// the stroke covers nothing.
	Stroke(h Handle, style Stroke) Handle
	// Difference returns subject with the area of cutout removed. The result
	// may be empty. Neither input is consumed.
	Difference(subject, cutout Handle) (Handle, error)
}

// Scope collects handles and releases them together. The zero value is
// ready to use; it is meant to be released with defer so every exit path
// frees what was acquired:
//
//	var scope wallgen.Scope
//	defer scope.Release()
//	h := scope.Track(engine.Build(p))
type Scope struct {
	mu      sync.Mutex
	handles []Handle
}

// Track adds h to the scope and returns it. A nil h is returned unchanged.
func (s *Scope) Track(h Handle) Handle {
	if h == nil {
		return nil
	}
	s.mu.Lock()
	s.handles = append(s.handles, h)
	s.mu.Unlock()
	return h
}

// Len returns the number of handles waiting to be released.
func (s *Scope) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handles)
}

// Release releases every tracked handle, most recent first. The scope can
// be reused afterwards and releasing an empty scope does nothing.
func (s *Scope) Release() {
	s.mu.Lock()
	handles := s.handles
	s.handles = nil
	s.mu.Unlock()

	for i := len(handles) - 1; i >= 0; i-- {
		handles[i].Release()
	}
}
