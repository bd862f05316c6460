package videoframe

import (
	"errors"
	"image"
	"image/draw"

	"github.com/tauraamui/xerror"
)

var ErrInvalidFrame = errors.New("invalid frame")

type Dimensions struct {
	W, H int
}

func (d Dimensions) Area() int { return d.W * d.H }

func (d Dimensions) Empty() bool { return d.W <= 0 || d.H <= 0 }

// Frame is an immutable RGB pixel buffer. Every stage which changes
// pixels hands back a new Frame, the receiver is never written to
// once constructed.
type Frame struct {
	img *image.RGBA
}

// New returns an opaque black frame of the given dimensions.
func New(d Dimensions) Frame {
	if d.Empty() {
		return Frame{img: image.NewRGBA(image.Rectangle{})}
	}
	img := image.NewRGBA(image.Rect(0, 0, d.W, d.H))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xFF
	}
	return Frame{img: img}
}

// FromRGB copies a tightly packed 3 byte per pixel buffer in R, G, B order.
func FromRGB(w, h int, pix []byte) (Frame, error) {
	return fromPacked(w, h, pix, 0, 1, 2)
}

// FromBGR copies a tightly packed 3 byte per pixel buffer in B, G, R order,
// which is how OpenCV hands back decoded frames.
func FromBGR(w, h int, pix []byte) (Frame, error) {
	return fromPacked(w, h, pix, 2, 1, 0)
}

func fromPacked(w, h int, pix []byte, ri, gi, bi int) (Frame, error) {
	if w <= 0 || h <= 0 {
		return Frame{}, xerror.Errorf("frame has dimensions %dx%d: %w", w, h, ErrInvalidFrame)
	}
	if len(pix) < w*h*3 {
		return Frame{}, xerror.Errorf(
			"frame %dx%d needs %d bytes, got %d: %w", w, h, w*h*3, len(pix), ErrInvalidFrame,
		)
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for s, d := 0, 0; d < len(img.Pix); s, d = s+3, d+4 {
		img.Pix[d] = pix[s+ri]
		img.Pix[d+1] = pix[s+gi]
		img.Pix[d+2] = pix[s+bi]
		img.Pix[d+3] = 0xFF
	}
	return Frame{img: img}, nil
}

// FromImage copies any image into a frame, translucent pixels are
// composited over black.
func FromImage(src image.Image) Frame {
	b := src.Bounds()
	img := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(img, img.Bounds(), image.Black, image.Point{}, draw.Src)
	draw.Draw(img, img.Bounds(), src, b.Min, draw.Over)
	return Frame{img: img}
}

func (f Frame) Dimensions() Dimensions {
	if f.img == nil {
		return Dimensions{}
	}
	b := f.img.Bounds()
	return Dimensions{W: b.Dx(), H: b.Dy()}
}

func (f Frame) Validate() error {
	if d := f.Dimensions(); d.Empty() {
		return xerror.Errorf("frame has dimensions %dx%d: %w", d.W, d.H, ErrInvalidFrame)
	}
	return nil
}

// RGB returns the pixel at x, y. Out of bounds reads are black.
func (f Frame) RGB(x, y int) (r, g, b uint8) {
	if f.img == nil || !(image.Point{X: x, Y: y}.In(f.img.Rect)) {
		return 0, 0, 0
	}
	i := f.img.PixOffset(x, y)
	return f.img.Pix[i], f.img.Pix[i+1], f.img.Pix[i+2]
}

// Image exposes the backing pixels for read only consumers such as the
// resampler and the quantizer. Callers must not draw into it.
func (f Frame) Image() *image.RGBA {
	return f.img
}
