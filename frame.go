package colorsep

import (
	"image"

	"golang.org/x/image/draw"
)

// Frame is a 2-D grid of pixels at channel depth C. Stride is measured in
// pixels per row and may exceed Width when the host buffer carries row
// padding; the engine always addresses rows through Stride, never through
// Width.
//
// Frame does not own its buffer: hosts may hand the same Pix slice as both
// source and destination of a render call (in-place rendering is detected
// and handled), and the engine never retains the slice past the call.
type Frame[C Channel] struct {
	Pix    []Pixel[C]
	Width  int
	Height int
	Stride int // pixels per row, >= Width
}

// NewFrame allocates a zeroed frame with a tight stride.
func NewFrame[C Channel](width, height int) *Frame[C] {
	return &Frame[C]{
		Pix:    make([]Pixel[C], width*height),
		Width:  width,
		Height: height,
		Stride: width,
	}
}

// Row returns the y-th row, trimmed to Width (padding excluded).
func (f *Frame[C]) Row(y int) []Pixel[C] {
	off := y * f.Stride
	return f.Pix[off : off+f.Width]
}

// At returns the pixel at (x, y).
func (f *Frame[C]) At(x, y int) Pixel[C] {
	return f.Pix[y*f.Stride+x]
}

// Set writes the pixel at (x, y).
func (f *Frame[C]) Set(x, y int, p Pixel[C]) {
	f.Pix[y*f.Stride+x] = p
}

// sameBuffer reports whether two frames alias the same backing memory, in
// which case the render is in-place and verbatim copies can be skipped.
func sameBuffer[C Channel](a, b *Frame[C]) bool {
	return len(a.Pix) > 0 && len(b.Pix) > 0 && &a.Pix[0] == &b.Pix[0]
}

// FrameFromImage converts any image.Image into an 8-bit frame with a tight
// stride. Conversion goes through NRGBA so alpha is kept straight
// (non-premultiplied), matching the compositor's alpha model.
func FrameFromImage(img image.Image) *Frame[uint8] {
	b := img.Bounds()
	nrgba := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Copy(nrgba, image.Point{}, img, b, draw.Src, nil)
	return frameFromNRGBA(nrgba)
}

// FrameToImage converts an 8-bit frame into an *image.NRGBA.
func FrameToImage(f *Frame[uint8]) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		row := f.Row(y)
		off := y * img.Stride
		for x, p := range row {
			i := off + x*4
			img.Pix[i+0] = p.R
			img.Pix[i+1] = p.G
			img.Pix[i+2] = p.B
			img.Pix[i+3] = p.A
		}
	}
	return img
}

// ScaleFrame resamples an 8-bit frame to width x height using bilinear
// filtering. Hosts use this to build proxy frames for preview renders; the
// matching DownsampleX/DownsampleY factors keep the boundary spatially
// correct at the reduced resolution.
func ScaleFrame(f *Frame[uint8], width, height int) *Frame[uint8] {
	src := FrameToImage(f)
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return frameFromNRGBA(dst)
}

// frameFromNRGBA assumes img has zero-origin bounds, which both call sites
// guarantee.
func frameFromNRGBA(img *image.NRGBA) *Frame[uint8] {
	b := img.Bounds()
	f := NewFrame[uint8](b.Dx(), b.Dy())
	for y := 0; y < f.Height; y++ {
		row := f.Row(y)
		off := y * img.Stride
		for x := range row {
			i := off + x*4
			row[x] = Pixel8{
				R: img.Pix[i+0],
				G: img.Pix[i+1],
				B: img.Pix[i+2],
				A: img.Pix[i+3],
			}
		}
	}
	return f
}
