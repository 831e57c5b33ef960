package colorsep

import (
	"math"
	"testing"
)

func TestConvertColor8(t *testing.T) {
	p := convertColor[uint8](Color8{R: 10, G: 20, B: 30})
	want := Pixel8{R: 10, G: 20, B: 30, A: 255}
	if p != want {
		t.Errorf("convertColor[uint8] = %v, want %v", p, want)
	}
}

func TestConvertColor16(t *testing.T) {
	tests := []struct {
		in   uint8
		want uint16
	}{
		{0, 0},
		{255, 32768},
		{128, 16448}, // round(128 * 32768 / 255)
		{1, 129},     // round(32768/255) = round(128.5)
	}
	for _, tt := range tests {
		p := convertColor[uint16](Color8{R: tt.in})
		if p.R != tt.want {
			t.Errorf("convertColor[uint16]({R: %d}).R = %d, want %d", tt.in, p.R, tt.want)
		}
	}
	if p := convertColor[uint16](Color8{}); p.A != 32768 {
		t.Errorf("converted 16-bit alpha = %d, want 32768", p.A)
	}
}

func TestConvertColorFloat(t *testing.T) {
	p := convertColor[float32](Color8{R: 255, G: 0, B: 51})
	if p.R != 1 || p.G != 0 {
		t.Errorf("convertColor[float32] R/G = %v/%v, want 1/0", p.R, p.G)
	}
	if math.Abs(float64(p.B)-51.0/255.0) > 1e-6 {
		t.Errorf("convertColor[float32] B = %v, want %v", p.B, 51.0/255.0)
	}
	if p.A != 1 {
		t.Errorf("converted float alpha = %v, want 1", p.A)
	}
}

func TestConvert16Roundtrip(t *testing.T) {
	// Widening to the 16-bit range and back must be lossless for every
	// 8-bit value.
	for c := 0; c < 256; c++ {
		wide := Convert16(uint8(c))
		back := Convert8(wide)
		if back != uint8(c) {
			t.Errorf("Convert8(Convert16(%d)) = %d via %d, want %d", c, back, wide, c)
		}
	}
}
