// Package config loads wallgen settings from TOML.
//
// Example file:
//
//	sample_distance  = 10
//	stroke_tolerance = 0.25
//	contour_cache    = 256
//
//	[store]
//	backend    = "redis"
//	redis_addr = "localhost:6379"
//	scene      = "dungeon"
//
//	[server]
//	addr = ":8080"
//
//	[log]
//	level = "debug"
package config

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/gogpu/wallgen"
	"github.com/gogpu/wallgen/scene"
)

// Store backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// ErrInvalid is returned for settings that fail validation.
var ErrInvalid = errors.New("config: invalid setting")

// Config is the complete settings tree.
type Config struct {
	SampleDistance  float64 `toml:"sample_distance"`
	StrokeTolerance float64 `toml:"stroke_tolerance"`
	// ContourCache is the number of wall outlines whose contours are kept
	// between passes. Zero disables the cache.
	ContourCache int `toml:"contour_cache"`

	Store  Store  `toml:"store"`
	Server Server `toml:"server"`
	Log    Log    `toml:"log"`
}

// Store selects the scene backend.
type Store struct {
	Backend       string `toml:"backend"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	Scene         string `toml:"scene"`
}

// Server holds HTTP settings.
type Server struct {
	Addr string `toml:"addr"`
}

// Log holds logging settings.
type Log struct {
	Level string `toml:"level"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		SampleDistance:  wallgen.DefaultSampleDistance,
		StrokeTolerance: wallgen.DefaultStrokeTolerance,
		ContourCache:    256,
		Store: Store{
			Backend:   BackendMemory,
			RedisAddr: "localhost:6379",
			Scene:     "default",
		},
		Server: Server{Addr: ":8080"},
		Log:    Log{Level: "info"},
	}
}

// Load reads path on top of the defaults. An empty path returns the
// defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return finish(cfg, md)
}

// Parse decodes TOML text on top of the defaults.
func Parse(data string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return finish(cfg, md)
}

func finish(cfg Config, md toml.MetaData) (Config, error) {
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%w: unknown keys %s", ErrInvalid, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every setting.
func (c Config) Validate() error {
	if !(c.SampleDistance > 0) || math.IsInf(c.SampleDistance, 0) {
		return fmt.Errorf("%w: sample_distance must be positive, got %v", ErrInvalid, c.SampleDistance)
	}
	if !(c.StrokeTolerance > 0) || math.IsInf(c.StrokeTolerance, 0) {
		return fmt.Errorf("%w: stroke_tolerance must be positive, got %v", ErrInvalid, c.StrokeTolerance)
	}
	if c.ContourCache < 0 {
		return fmt.Errorf("%w: contour_cache must not be negative, got %d", ErrInvalid, c.ContourCache)
	}
	switch c.Store.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Store.RedisAddr == "" {
			return fmt.Errorf("%w: store.redis_addr is required for the redis backend", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: store.backend %q", ErrInvalid, c.Store.Backend)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level %q", ErrInvalid, c.Log.Level)
	}
	return nil
}

// ExtractorOptions returns the extractor settings.
func (c Config) ExtractorOptions() []wallgen.ExtractorOption {
	return []wallgen.ExtractorOption{
		wallgen.WithSampleDistance(c.SampleDistance),
		wallgen.WithStrokeTolerance(c.StrokeTolerance),
		wallgen.WithContourCache(c.ContourCache),
	}
}

// OpenStore connects to the configured backend. The returned function
// releases it.
func (c Config) OpenStore(ctx context.Context, items ...scene.Item) (scene.Store, func() error, error) {
	switch c.Store.Backend {
	case BackendRedis:
		s, err := scene.NewRedisStore(ctx, scene.RedisConfig{
			Addr:     c.Store.RedisAddr,
			Password: c.Store.RedisPassword,
			DB:       c.Store.RedisDB,
			Scene:    c.Store.Scene,
		})
		if err != nil {
			return nil, nil, err
		}
		if len(items) > 0 {
			if err := s.ReplaceItems(ctx, items...); err != nil {
				_ = s.Close()
				return nil, nil, err
			}
		}
		return s, s.Close, nil
	default:
		s, err := scene.NewMemoryStore(items...)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	}
}
