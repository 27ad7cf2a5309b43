package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/gogpu/wallgen/scene"
)

func TestDefault(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SampleDistance != 10 || cfg.StrokeTolerance != 0.25 {
		t.Errorf("geometry defaults = %v, %v", cfg.SampleDistance, cfg.StrokeTolerance)
	}
	if cfg.Store.Backend != BackendMemory || cfg.Server.Addr != ":8080" || cfg.Log.Level != "info" {
		t.Errorf("defaults = %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallgen.toml")
	data := `
sample_distance = 4

[store]
backend = "redis"
scene = "dungeon"

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SampleDistance != 4 {
		t.Errorf("sample_distance = %v, want 4", cfg.SampleDistance)
	}
	if cfg.StrokeTolerance != 0.25 {
		t.Errorf("unset stroke_tolerance = %v, want default", cfg.StrokeTolerance)
	}
	if cfg.Store.Backend != BackendRedis || cfg.Store.Scene != "dungeon" || cfg.Store.RedisAddr != "localhost:6379" {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q", cfg.Log.Level)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Load of a missing file succeeded")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		invalid bool
	}{
		{"syntax", `sample_distance = `, false},
		{"unknown key", `colour = "red"`, true},
		{"unknown table key", "[server]\nport = 1", true},
		{"zero sample distance", `sample_distance = 0`, true},
		{"negative tolerance", `stroke_tolerance = -1`, true},
		{"negative cache", `contour_cache = -1`, true},
		{"backend", "[store]\nbackend = \"mongo\"", true},
		{"redis without addr", "[store]\nbackend = \"redis\"\nredis_addr = \"\"", true},
		{"log level", "[log]\nlevel = \"loud\"", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			if err == nil {
				t.Fatal("Parse succeeded")
			}
			if got := errors.Is(err, ErrInvalid); got != tt.invalid {
				t.Errorf("errors.Is(%v, ErrInvalid) = %v, want %v", err, got, tt.invalid)
			}
		})
	}
}

func TestExtractorOptions(t *testing.T) {
	cfg := Default()
	if got := len(cfg.ExtractorOptions()); got != 3 {
		t.Errorf("got %d options, want 3", got)
	}
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()
	item := scene.Item{ID: "a", Kind: scene.KindLine, Line: &scene.Line{}}

	t.Run("memory", func(t *testing.T) {
		s, closeFn, err := Default().OpenStore(ctx, item)
		if err != nil {
			t.Fatal(err)
		}
		defer closeFn()
		if _, ok := s.(*scene.MemoryStore); !ok {
			t.Errorf("store = %T, want *scene.MemoryStore", s)
		}
		items, _ := s.Items(ctx)
		if len(items) != 1 {
			t.Errorf("seeded items = %d, want 1", len(items))
		}
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := Default()
		cfg.Store.Backend = BackendRedis
		cfg.Store.RedisAddr = mr.Addr()
		s, closeFn, err := cfg.OpenStore(ctx, item)
		if err != nil {
			t.Fatal(err)
		}
		defer closeFn()
		if _, ok := s.(*scene.RedisStore); !ok {
			t.Errorf("store = %T, want *scene.RedisStore", s)
		}
		items, err := s.Items(ctx)
		if err != nil || len(items) != 1 {
			t.Errorf("seeded items = %v, %v", items, err)
		}
	})
}
