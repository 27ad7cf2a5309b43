package wallgen

import (
	"math"
	"testing"
)

func TestNewExtractorDefault(t *testing.T) {
	x := NewExtractor()
	if x == nil {
		t.Fatal("NewExtractor returned nil")
	}
	native, ok := x.Engine().(*NativeEngine)
	if !ok {
		t.Fatalf("default engine is %T, want *NativeEngine", x.Engine())
	}
	if native.tolerance != DefaultStrokeTolerance || native.step != DefaultSampleDistance {
		t.Errorf("engine tolerance/step = %v/%v, want defaults", native.tolerance, native.step)
	}
	if x.sampler.MaxStep != DefaultSampleDistance {
		t.Errorf("sampler step = %v, want %v", x.sampler.MaxStep, DefaultSampleDistance)
	}
}

func TestWithEngine(t *testing.T) {
	engine := NewNativeEngine(0.1, 3)
	x := NewExtractor(WithEngine(engine), WithStrokeTolerance(5))
	if x.Engine() != engine {
		t.Error("Engine() is not the injected engine")
	}
	if engine.tolerance != 0.1 {
		t.Errorf("WithStrokeTolerance changed an injected engine: %v", engine.tolerance)
	}
}

func TestExtractorOptions(t *testing.T) {
	tests := []struct {
		name          string
		opts          []ExtractorOption
		wantStep      float64
		wantTolerance float64
	}{
		{"none", nil, DefaultSampleDistance, DefaultStrokeTolerance},
		{"sample distance", []ExtractorOption{WithSampleDistance(2.5)}, 2.5, DefaultStrokeTolerance},
		{"stroke tolerance", []ExtractorOption{WithStrokeTolerance(0.05)}, DefaultSampleDistance, 0.05},
		{"zero ignored", []ExtractorOption{WithSampleDistance(0), WithStrokeTolerance(0)}, DefaultSampleDistance, DefaultStrokeTolerance},
		{"negative ignored", []ExtractorOption{WithSampleDistance(-1)}, DefaultSampleDistance, DefaultStrokeTolerance},
		{"NaN ignored", []ExtractorOption{WithSampleDistance(math.NaN()), WithStrokeTolerance(math.Inf(1))}, DefaultSampleDistance, DefaultStrokeTolerance},
		{"last wins", []ExtractorOption{WithSampleDistance(4), WithSampleDistance(6)}, 6, DefaultStrokeTolerance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := NewExtractor(tt.opts...)
			native := x.Engine().(*NativeEngine)
			if x.sampler.MaxStep != tt.wantStep || native.step != tt.wantStep {
				t.Errorf("step = %v (engine %v), want %v", x.sampler.MaxStep, native.step, tt.wantStep)
			}
			if native.tolerance != tt.wantTolerance {
				t.Errorf("tolerance = %v, want %v", native.tolerance, tt.wantTolerance)
			}
		})
	}
}
