package scene

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/gogpu/wallgen"
)

func ids(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func line(id string) Item {
	return Item{ID: id, Kind: KindLine, Line: &Line{End: wallgen.Pt(10, 0)}, Style: Style{StrokeWidth: 2}}
}

func TestMemoryStoreWrites(t *testing.T) {
	ctx := context.Background()
	s, err := NewMemoryStore(line("a"))
	if err != nil {
		t.Fatal(err)
	}

	var snaps [][]string
	cancel := s.Subscribe(func(items []Item) { snaps = append(snaps, ids(items)) })
	defer cancel()

	if err := s.CreateItems(ctx, line("b"), line("c")); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateItems(ctx, line("d"), line("a")); !errors.Is(err, ErrExists) {
		t.Errorf("duplicate create err = %v, want ErrExists", err)
	}
	if err := s.UpdateItems(ctx, Update{ID: "b", Apply: func(it *Item) {
		it.Name = "renamed"
		it.ID = "hijack"
	}}, Update{ID: "missing", Apply: func(*Item) {}}); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteItems(ctx, "a", "missing"); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteItems(ctx, "missing"); err != nil {
		t.Fatal(err)
	}

	want := [][]string{{"a", "b", "c"}, {"a", "b", "c"}, {"b", "c"}}
	if !slices.EqualFunc(snaps, want, func(a, b []string) bool { return slices.Equal(a, b) }) {
		t.Errorf("notifications = %v, want %v", snaps, want)
	}

	items, err := s.Items(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if items[0].ID != "b" || items[0].Name != "renamed" {
		t.Errorf("updated item = %+v", items[0])
	}
}

func TestMemoryStoreSnapshotsAreCopies(t *testing.T) {
	ctx := context.Background()
	s, _ := NewMemoryStore(line("a"))
	items, _ := s.Items(ctx)
	items[0].Line.End = wallgen.Pt(99, 99)

	again, _ := s.Items(ctx)
	if again[0].Line.End != wallgen.Pt(10, 0) {
		t.Error("mutating a snapshot changed the store")
	}
}

func TestMemoryStoreReady(t *testing.T) {
	ctx := context.Background()
	s, _ := NewMemoryStore()

	var got []bool
	cancel := s.OnReadyChange(func(r bool) { got = append(got, r) })

	for _, r := range []bool{true, true, false, true} {
		if err := s.SetReady(ctx, r); err != nil {
			t.Fatal(err)
		}
	}
	cancel()
	cancel()
	_ = s.SetReady(ctx, false)

	if want := []bool{true, false, true}; !slices.Equal(got, want) {
		t.Errorf("readiness changes = %v, want %v", got, want)
	}
	if ready, _ := s.Ready(ctx); ready {
		t.Error("Ready() = true after SetReady(false)")
	}
}

func TestMemoryStoreReplaceAndClose(t *testing.T) {
	ctx := context.Background()
	s, _ := NewMemoryStore(line("a"), line("b"))

	if err := s.ReplaceItems(ctx, line("x"), line("x")); !errors.Is(err, ErrExists) {
		t.Errorf("replace with duplicates err = %v", err)
	}
	if err := s.ReplaceItems(ctx, line("x")); err != nil {
		t.Fatal(err)
	}
	items, _ := s.Items(ctx)
	if !slices.Equal(ids(items), []string{"x"}) {
		t.Errorf("items = %v, want [x]", ids(items))
	}
	if err := s.CreateItems(ctx, Item{}); !errors.Is(err, ErrInvalidItem) {
		t.Errorf("create without id err = %v", err)
	}

	_ = s.Close()
	if _, err := s.Items(ctx); !errors.Is(err, ErrClosed) {
		t.Errorf("Items after Close err = %v", err)
	}
	if err := s.DeleteItems(ctx, "x"); !errors.Is(err, ErrClosed) {
		t.Errorf("DeleteItems after Close err = %v", err)
	}
}

func TestMemoryStoreNoopUpdateIsSilent(t *testing.T) {
	ctx := context.Background()
	s, _ := NewMemoryStore(line("a"))

	var n int
	s.Subscribe(func([]Item) { n++ })
	same := func(it *Item) { it.Line.End = wallgen.Pt(10, 0) }
	if err := s.UpdateItems(ctx, Update{ID: "a", Apply: same}); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("no-op update notified %d times", n)
	}
	if err := s.UpdateItems(ctx, Update{ID: "a", Apply: func(it *Item) { it.Name = "x" }}); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("real update notified %d times, want 1", n)
	}
}

func TestMemoryStoreNotifiesInMutationOrder(t *testing.T) {
	ctx := context.Background()
	s, _ := NewMemoryStore()

	var (
		mu      sync.Mutex
		sizes   []int
		entered = make(chan struct{})
		release = make(chan struct{})
	)
	s.Subscribe(func(items []Item) {
		if len(items) == 1 {
			close(entered)
			<-release
		}
		mu.Lock()
		sizes = append(sizes, len(items))
		mu.Unlock()
	})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = s.CreateItems(ctx, line("a"))
	}()
	<-entered
	go func() {
		defer wg.Done()
		_ = s.CreateItems(ctx, line("b"))
	}()
	// Give the second write time to land while the first delivery stalls.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if !slices.Equal(sizes, []int{1, 2}) {
		t.Errorf("snapshot sizes delivered = %v, want [1 2]", sizes)
	}
}
