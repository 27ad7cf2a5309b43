package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/gogpu/wallgen"
	"github.com/gogpu/wallgen/reconcile"
	"github.com/gogpu/wallgen/scene"
	"github.com/gogpu/wallgen/walls"
)

func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func tagged(id string) scene.Item {
	it := scene.Item{
		ID:        id,
		Kind:      scene.KindLine,
		Transform: wallgen.DefaultTransform(),
		Style:     scene.Style{StrokeWidth: 4},
		Line:      &scene.Line{End: wallgen.Pt(50, 0)},
	}
	it.SetFlag(scene.MetaWall, true)
	return it
}

func countWalls(store scene.Source) int {
	items, err := store.Items(context.Background())
	if err != nil {
		return -1
	}
	n := 0
	for _, it := range items {
		if it.IsWall() {
			n++
		}
	}
	return n
}

func start(t *testing.T, s *Session) (stop func() error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	return func() error {
		cancel()
		select {
		case err := <-done:
			return err
		case <-time.After(2 * time.Second):
			t.Fatal("Run did not return")
			return nil
		}
	}
}

func TestSessionFollowsScene(t *testing.T) {
	ctx := context.Background()
	store, _ := scene.NewMemoryStore(tagged("a"))
	engine := reconcile.New(store)
	walls.Register(engine, wallgen.NewExtractor())

	stop := start(t, New(store, engine))

	time.Sleep(20 * time.Millisecond)
	if n := countWalls(store); n != 0 {
		t.Fatalf("walls built before the scene was ready: %d", n)
	}

	if err := store.SetReady(ctx, true); err != nil {
		t.Fatal(err)
	}
	eventually(t, "initial walls", func() bool { return countWalls(store) == 1 })

	if err := store.CreateItems(ctx, tagged("b")); err != nil {
		t.Fatal(err)
	}
	eventually(t, "walls for a new drawing", func() bool { return countWalls(store) == 2 })

	if err := store.DeleteItems(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	eventually(t, "walls of a removed drawing deleted", func() bool { return countWalls(store) == 1 })

	if err := stop(); err != nil {
		t.Fatalf("Run() = %v", err)
	}
}

func TestSessionClearsOnNotReady(t *testing.T) {
	ctx := context.Background()
	store, _ := scene.NewMemoryStore(tagged("a"))
	_ = store.SetReady(ctx, true)
	engine := reconcile.New(store)
	walls.Register(engine, wallgen.NewExtractor())

	var mu sync.Mutex
	var passes int
	stop := start(t, New(store, engine, WithPassHook(func(error) {
		mu.Lock()
		passes++
		mu.Unlock()
	})))
	eventually(t, "walls", func() bool { return countWalls(store) == 1 })

	_ = store.SetReady(ctx, false)
	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	before := passes
	mu.Unlock()

	// Changes while not ready are ignored.
	_ = store.CreateItems(ctx, tagged("b"))
	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	after := passes
	mu.Unlock()
	if after != before {
		t.Errorf("%d passes ran while the scene was not ready", after-before)
	}

	if err := stop(); err != nil {
		t.Fatal(err)
	}
	if engine.Len() != 0 {
		t.Errorf("engine kept %d actors after the scene went away", engine.Len())
	}
}

// fakeSource records subscription traffic.
type fakeSource struct {
	mu    sync.Mutex
	log   []string
	subs  int
	ready func(bool)
}

func (f *fakeSource) record(s string) {
	f.mu.Lock()
	f.log = append(f.log, s)
	f.mu.Unlock()
}

func (f *fakeSource) events() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.log)
}

func (f *fakeSource) Items(context.Context) ([]scene.Item, error) {
	f.record("items")
	return nil, nil
}

func (f *fakeSource) Subscribe(func([]scene.Item)) func() {
	f.mu.Lock()
	f.subs++
	n := f.subs
	f.log = append(f.log, fmt.Sprintf("subscribe %d", n))
	f.mu.Unlock()
	return func() { f.record(fmt.Sprintf("cancel %d", n)) }
}

func (f *fakeSource) Ready(context.Context) (bool, error) { return true, nil }

func (f *fakeSource) OnReadyChange(fn func(bool)) func() {
	f.mu.Lock()
	f.ready = fn
	f.mu.Unlock()
	return func() {}
}

func (f *fakeSource) setReady(r bool) {
	f.mu.Lock()
	fn := f.ready
	f.mu.Unlock()
	fn(r)
}

func TestSessionTearsDownBeforeRebuild(t *testing.T) {
	src := &fakeSource{}
	store, _ := scene.NewMemoryStore()
	stop := start(t, New(src, reconcile.New(store)))

	eventually(t, "first session", func() bool { return len(src.events()) >= 2 })
	src.setReady(false)
	src.setReady(true)
	eventually(t, "second session", func() bool { return slices.Contains(src.events(), "subscribe 2") })
	if err := stop(); err != nil {
		t.Fatal(err)
	}

	want := []string{"subscribe 1", "items", "cancel 1", "subscribe 2", "items", "cancel 2"}
	if got := src.events(); !slices.Equal(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestSessionStopsOnWiringError(t *testing.T) {
	ctx := context.Background()
	store, _ := scene.NewMemoryStore(tagged("a"))
	_ = store.SetReady(ctx, true)
	engine := reconcile.New(store)
	engine.AddActor(walls.ActorKind, scene.Item.HasWalls, walls.Factory(wallgen.NewExtractor()))

	err := New(store, engine).Run(ctx)
	if !errors.Is(err, reconcile.ErrReactorMissing) {
		t.Errorf("Run() = %v, want ErrReactorMissing", err)
	}
}

func TestSessionReadinessCycleKeepsWalls(t *testing.T) {
	ctx := context.Background()
	store, _ := scene.NewMemoryStore(tagged("a"))
	_ = store.SetReady(ctx, true)
	engine := reconcile.New(store)
	walls.Register(engine, wallgen.NewExtractor())

	var mu sync.Mutex
	var passes int
	stop := start(t, New(store, engine, WithPassHook(func(error) {
		mu.Lock()
		passes++
		mu.Unlock()
	})))
	eventually(t, "walls", func() bool { return countWalls(store) == 1 })
	items, _ := store.Items(ctx)
	var id string
	for _, it := range items {
		if it.IsWall() {
			id = it.ID
		}
	}

	mu.Lock()
	before := passes
	mu.Unlock()
	_ = store.SetReady(ctx, false)
	_ = store.SetReady(ctx, true)
	eventually(t, "rebuild pass", func() bool {
		mu.Lock()
		defer mu.Unlock()
		return passes > before
	})

	items, _ = store.Items(ctx)
	var ids []string
	for _, it := range items {
		if it.IsWall() {
			ids = append(ids, it.ID)
		}
	}
	if len(ids) != 1 || ids[0] != id {
		t.Errorf("walls after readiness cycle = %v, want [%s]", ids, id)
	}

	if err := stop(); err != nil {
		t.Fatal(err)
	}
}
