package colorsep

import "testing"

func TestCompositePixelOpaque(t *testing.T) {
	target := Pixel8{R: 255, G: 0, B: 0, A: 255}
	tests := []struct {
		name     string
		src      Pixel8
		coverage float32
		want     Pixel8
	}{
		{
			name: "zero coverage copies",
			src:  Pixel8{R: 10, G: 20, B: 30, A: 255}, coverage: 0,
			want: Pixel8{R: 10, G: 20, B: 30, A: 255},
		},
		{
			name: "full coverage writes target rgb",
			src:  Pixel8{R: 10, G: 20, B: 30, A: 255}, coverage: 1,
			want: Pixel8{R: 255, G: 0, B: 0, A: 255},
		},
		{
			name: "half coverage blends",
			src:  Pixel8{R: 255, G: 255, B: 255, A: 255}, coverage: 0.5,
			want: Pixel8{R: 255, G: 128, B: 128, A: 255},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dst Pixel8
			compositePixel(&dst, tt.src, target, tt.coverage)
			if dst != tt.want {
				t.Errorf("compositePixel = %v, want %v", dst, tt.want)
			}
		})
	}
}

func TestCompositePixelAlphaScalesCoverage(t *testing.T) {
	target := Pixel8{R: 255, G: 0, B: 0, A: 255}

	// Transparent source passes through even at full coverage.
	src := Pixel8{R: 10, G: 20, B: 30, A: 0}
	var dst Pixel8
	compositePixel(&dst, src, target, 1)
	if dst != src {
		t.Errorf("transparent pixel = %v, want %v", dst, src)
	}

	// Half-alpha source at full coverage blends half-way toward the target.
	src = Pixel8{R: 0, G: 200, B: 0, A: 128}
	compositePixel(&dst, src, target, 1)
	if dst.A != 128 {
		t.Errorf("alpha = %d, want 128 (preserved)", dst.A)
	}
	// eff = 128/255; R = 0 + 255*eff + 0.5 = 128
	if dst.R != 128 {
		t.Errorf("R = %d, want 128", dst.R)
	}
	// G = 200 + (0-200)*eff + 0.5 -> 100
	if dst.G != 100 {
		t.Errorf("G = %d, want 100", dst.G)
	}
}

func TestCompositePixelFloat(t *testing.T) {
	target := PixelF{R: 1, G: 0, B: 0, A: 1}
	src := PixelF{R: 0, G: 1, B: 0.5, A: 1}
	var dst PixelF
	compositePixel(&dst, src, target, 0.5)
	if dst.R != 0.5 || dst.G != 0.5 || dst.B != 0.25 || dst.A != 1 {
		t.Errorf("compositePixel = %v, want {0.5 0.5 0.25 1}", dst)
	}
}

func TestCompositePixelEpsilonSnap(t *testing.T) {
	target := Pixel8{R: 255, A: 255}
	src := Pixel8{R: 10, G: 10, B: 10, A: 255}
	var dst Pixel8

	compositePixel(&dst, src, target, 0.00005)
	if dst != src {
		t.Errorf("near-zero coverage = %v, want source %v", dst, src)
	}

	compositePixel(&dst, src, target, 0.99995)
	want := Pixel8{R: 255, G: 0, B: 0, A: 255}
	if dst != want {
		t.Errorf("near-full coverage = %v, want %v", dst, want)
	}
}
