package walls

import (
	"fmt"
	"slices"
	"testing"

	"github.com/gogpu/wallgen"
)

func contoursN(n int) []wallgen.Contour {
	out := make([]wallgen.Contour, n)
	for i := range out {
		out[i] = wallgen.Contour{wallgen.Pt(float64(i), 0)}
	}
	return out
}

func idsN(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("w%d", i)
	}
	return out
}

func TestDiffCounts(t *testing.T) {
	for m := range 4 {
		for n := range 4 {
			t.Run(fmt.Sprintf("%d->%d", m, n), func(t *testing.T) {
				prev, next := idsN(m), contoursN(n)
				ch := Diff(prev, next)

				kept := m - len(ch.DeletedIDs)
				if got := kept + len(ch.Created); got != n {
					t.Fatalf("walls after diff = %d, want %d", got, n)
				}
				if len(ch.Updated) != min(m, n) {
					t.Errorf("updated %d walls, want %d", len(ch.Updated), min(m, n))
				}
				for i, u := range ch.Updated {
					if u.Index != i || !u.Contour.Equal(next[i]) {
						t.Errorf("update %d = %+v", i, u)
					}
				}
				if n > m && !slices.EqualFunc(ch.Created, next[m:], wallgen.Contour.Equal) {
					t.Errorf("created = %v, want the trailing contours", ch.Created)
				}
				if m > n && !slices.Equal(ch.DeletedIDs, prev[n:]) {
					t.Errorf("deleted = %v, want %v", ch.DeletedIDs, prev[n:])
				}
			})
		}
	}
}

func TestDiffDoesNotAliasPrev(t *testing.T) {
	prev := idsN(3)
	ch := Diff(prev, nil)
	ch.DeletedIDs[0] = "changed"
	if prev[0] != "w0" {
		t.Error("DeletedIDs aliases the previous wall list")
	}
}
