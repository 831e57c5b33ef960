package colorsep

import (
	"math"
	"testing"
)

func TestDepthString(t *testing.T) {
	tests := []struct {
		d    Depth
		want string
	}{
		{Depth8, "8-bit"},
		{Depth16, "16-bit"},
		{DepthFloat, "float"},
		{Depth(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.d.String(); got != tt.want {
			t.Errorf("Depth(%d).String() = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestMaxChannel(t *testing.T) {
	if got := maxChannel[uint8](); got != 255 {
		t.Errorf("maxChannel[uint8]() = %v, want 255", got)
	}
	if got := maxChannel[uint16](); got != 32768 {
		t.Errorf("maxChannel[uint16]() = %v, want 32768", got)
	}
	if got := maxChannel[float32](); got != 1 {
		t.Errorf("maxChannel[float32]() = %v, want 1", got)
	}
}

func TestBlendUint8(t *testing.T) {
	tests := []struct {
		name     string
		src, dst uint8
		t        float32
		want     uint8
	}{
		{"t=0 keeps src", 10, 200, 0, 10},
		{"t=1 reaches dst", 10, 200, 1, 200},
		{"midpoint rounds", 0, 255, 0.5, 128},
		{"equal endpoints stable", 77, 77, 0.3, 77},
		{"descending", 200, 100, 0.5, 150},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := blend(tt.src, tt.dst, tt.t); got != tt.want {
				t.Errorf("blend(%d, %d, %g) = %d, want %d", tt.src, tt.dst, tt.t, got, tt.want)
			}
		})
	}
}

func TestBlendFloatExact(t *testing.T) {
	// Float channels must not pick up the integer rounding offset.
	got := blend(float32(0), float32(1), 0.25)
	if math.Abs(float64(got-0.25)) > 1e-6 {
		t.Errorf("blend(0, 1, 0.25) = %v, want 0.25", got)
	}
	if got := blend(float32(0.5), float32(0.5), 0.9); got != 0.5 {
		t.Errorf("blend(0.5, 0.5, 0.9) = %v, want 0.5", got)
	}
}

func TestBlendIdempotent(t *testing.T) {
	// Blending a value toward itself must return it unchanged at every
	// blend factor and precision.
	for _, f := range []float32{0, 0.1, 0.5, 0.9, 1} {
		if got := blend(uint8(200), uint8(200), f); got != 200 {
			t.Errorf("blend(200, 200, %g) = %d, want 200", f, got)
		}
		if got := blend(uint16(30000), uint16(30000), f); got != 30000 {
			t.Errorf("blend(30000, 30000, %g) = %d, want 30000", f, got)
		}
		if got := blend(float32(0.25), float32(0.25), f); got != 0.25 {
			t.Errorf("blend(0.25, 0.25, %g) = %v, want 0.25", f, got)
		}
	}
}

func TestTransparent(t *testing.T) {
	if !transparent(Pixel8{R: 10, A: 0}) {
		t.Error("zero alpha uint8 pixel should be transparent")
	}
	if transparent(Pixel8{A: 1}) {
		t.Error("alpha 1 uint8 pixel should not be transparent")
	}
	if !transparent(PixelF{A: 0}) {
		t.Error("zero alpha float pixel should be transparent")
	}
	if transparent(PixelF{A: 0.001}) {
		t.Error("alpha 0.001 float pixel should not be transparent")
	}
}
