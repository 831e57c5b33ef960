package colorsep

import (
	"image"
	"image/color"
	"testing"
)

func TestFrameRowAtSet(t *testing.T) {
	f := NewFrame[uint8](4, 3)
	f.Set(2, 1, Pixel8{R: 9, A: 255})
	if got := f.At(2, 1); got != (Pixel8{R: 9, A: 255}) {
		t.Errorf("At(2,1) = %v", got)
	}
	row := f.Row(1)
	if len(row) != 4 {
		t.Fatalf("len(Row(1)) = %d, want 4", len(row))
	}
	if row[2] != (Pixel8{R: 9, A: 255}) {
		t.Errorf("Row(1)[2] = %v", row[2])
	}
}

func TestFrameRowWithPadding(t *testing.T) {
	f := &Frame[uint8]{Pix: make([]Pixel8, 10*4), Width: 7, Height: 4, Stride: 10}
	row := f.Row(3)
	if len(row) != 7 {
		t.Errorf("padded row length = %d, want Width", len(row))
	}
	f.Set(6, 3, Pixel8{G: 5})
	if f.Pix[3*10+6] != (Pixel8{G: 5}) {
		t.Error("Set did not address through stride")
	}
}

func TestSameBuffer(t *testing.T) {
	a := NewFrame[uint8](4, 4)
	b := NewFrame[uint8](4, 4)
	if sameBuffer(a, b) {
		t.Error("distinct frames reported as aliased")
	}
	if !sameBuffer(a, a) {
		t.Error("frame not aliased with itself")
	}
	shared := &Frame[uint8]{Pix: a.Pix, Width: 4, Height: 4, Stride: 4}
	if !sameBuffer(a, shared) {
		t.Error("frames sharing Pix not reported as aliased")
	}
}

func TestFrameImageRoundtrip(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	img.SetNRGBA(2, 1, color.NRGBA{R: 40, G: 50, B: 60, A: 128})

	f := FrameFromImage(img)
	if f.Width != 3 || f.Height != 2 {
		t.Fatalf("frame size = %dx%d, want 3x2", f.Width, f.Height)
	}
	if got := f.At(0, 0); got != (Pixel8{R: 10, G: 20, B: 30, A: 255}) {
		t.Errorf("At(0,0) = %v", got)
	}
	if got := f.At(2, 1); got != (Pixel8{R: 40, G: 50, B: 60, A: 128}) {
		t.Errorf("At(2,1) = %v", got)
	}

	back := FrameToImage(f)
	if got := back.NRGBAAt(2, 1); got != (color.NRGBA{R: 40, G: 50, B: 60, A: 128}) {
		t.Errorf("round trip (2,1) = %v", got)
	}
}

func TestFrameFromImageNonZeroOrigin(t *testing.T) {
	img := image.NewNRGBA(image.Rect(5, 5, 8, 7))
	img.SetNRGBA(5, 5, color.NRGBA{R: 1, A: 255})
	f := FrameFromImage(img)
	if f.Width != 3 || f.Height != 2 {
		t.Fatalf("frame size = %dx%d, want 3x2", f.Width, f.Height)
	}
	if got := f.At(0, 0); got != (Pixel8{R: 1, A: 255}) {
		t.Errorf("At(0,0) = %v, want translated origin pixel", got)
	}
}

func TestScaleFrame(t *testing.T) {
	f := solidFrame(8, 8, Pixel8{R: 100, G: 150, B: 200, A: 255})
	half := ScaleFrame(f, 4, 4)
	if half.Width != 4 || half.Height != 4 {
		t.Fatalf("scaled size = %dx%d, want 4x4", half.Width, half.Height)
	}
	// Downscaling a solid frame keeps the color.
	if got := half.At(1, 1); got != (Pixel8{R: 100, G: 150, B: 200, A: 255}) {
		t.Errorf("At(1,1) = %v, want original solid color", got)
	}
}
