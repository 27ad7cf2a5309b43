package wallgen

import (
	"slices"
	"testing"
)

type recordingHandle struct {
	name string
	log  *[]string
}

func (h recordingHandle) Elements() []PathElement { return nil }
func (h recordingHandle) Release()                { *h.log = append(*h.log, h.name) }

func TestScopeReleasesInReverseOrder(t *testing.T) {
	var log []string
	var s Scope

	for _, name := range []string{"build", "stroke", "door"} {
		if h := s.Track(recordingHandle{name, &log}); h == nil {
			t.Fatalf("Track(%s) returned nil", name)
		}
	}
	if s.Track(nil) != nil {
		t.Error("Track(nil) != nil")
	}
	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}

	s.Release()
	if want := []string{"door", "stroke", "build"}; !slices.Equal(log, want) {
		t.Errorf("release order = %v, want %v", log, want)
	}

	s.Release()
	if len(log) != 3 || s.Len() != 0 {
		t.Errorf("second Release released again: %v", log)
	}

	s.Track(recordingHandle{"again", &log})
	s.Release()
	if log[len(log)-1] != "again" {
		t.Error("scope is not reusable after Release")
	}
}

func TestScopeReleasesOnEarlyReturn(t *testing.T) {
	engine := NewNativeEngine(0, 0)
	run := func(bail bool) {
		var s Scope
		defer s.Release()
		h := s.Track(engine.Build(rectPath(0, 0, 5, 5)))
		if bail {
			return
		}
		s.Track(engine.Stroke(h, ShapeStroke(1)))
	}

	run(true)
	run(false)
	if engine.Live() != 0 {
		t.Errorf("Live() = %d after scoped use, want 0", engine.Live())
	}
}
