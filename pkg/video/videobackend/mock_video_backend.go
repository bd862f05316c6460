package videobackend

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"math"
	"path/filepath"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/tauraamui/reel332/pkg/video/videoframe"
	"github.com/tauraamui/reel332/pkg/video/videosource"
	"github.com/tauraamui/xerror"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// MockSettings describes the synthetic stream every mock source plays back.
type MockSettings struct {
	Dimensions videoframe.Dimensions
	FPS        float64
	Frames     int
}

func DefaultMockSettings() MockSettings {
	return MockSettings{
		Dimensions: videoframe.Dimensions{W: 600, H: 400},
		FPS:        30,
		Frames:     90,
	}
}

type mockVideoBackend struct {
	settings MockSettings
}

func (b *mockVideoBackend) Open(cancel context.Context, path string) (videosource.Source, error) {
	if err := cancel.Err(); err != nil {
		return nil, err
	}
	if b.settings.Dimensions.Empty() {
		return nil, xerror.Errorf(
			"mock stream has dimensions %dx%d: %w",
			b.settings.Dimensions.W, b.settings.Dimensions.H, videoframe.ErrInvalidFrame,
		)
	}
	return &mockVideoSource{
		title:    filepath.Base(path),
		settings: b.settings,
	}, nil
}

type mockVideoSource struct {
	title                   string
	settings                MockSettings
	read                    int
	renderedBaseFrameCanvas bool
	baseFrameCanvas         image.Image
}

func (mvs *mockVideoSource) Info() videosource.Info {
	return videosource.Info{
		Dimensions: mvs.settings.Dimensions,
		FPS:        mvs.settings.FPS,
		FrameCount: mvs.settings.Frames,
	}
}

func (mvs *mockVideoSource) Read() (videoframe.Frame, error) {
	if mvs.read >= mvs.settings.Frames {
		return videoframe.Frame{}, io.EOF
	}

	if !mvs.renderedBaseFrameCanvas {
		mvs.baseFrameCanvas = renderBaseFrameCanvas(mvs.settings.Dimensions)
		mvs.renderedBaseFrameCanvas = true
	}

	img, err := drawTextLayerOntoBaseFrameClone(
		mvs.baseFrameCanvas, mvs.title, mvs.read,
	)
	if err != nil {
		return videoframe.Frame{}, err
	}

	mvs.read++
	return videoframe.FromImage(img), nil
}

func (mvs *mockVideoSource) Close() error {
	mvs.renderedBaseFrameCanvas = false
	mvs.baseFrameCanvas = nil
	return nil
}

func drawTextLayerOntoBaseFrameClone(base image.Image, title string, index int) (image.Image, error) {
	baseClone := cloneImage(base)
	h := baseClone.Bounds().Dy()

	err := drawText(baseClone, 5, h/4, "REEL332_MOCK_STREAM")
	if err != nil {
		return nil, xerror.Errorf("unable to draw text onto in-mem image for mock stream: %w", err)
	}
	err = drawText(baseClone, 5, h/2, title)
	if err != nil {
		return nil, xerror.Errorf("unable to draw text onto in-mem image for mock stream: %w", err) //nolint
	}
	err = drawText(baseClone, 5, h*3/4, fmt.Sprintf("frame %05d", index))
	if err != nil {
		return nil, xerror.Errorf("unable to draw text onto in-mem image for mock stream: %w", err) //nolint
	}
	return baseClone, nil
}

func renderBaseFrameCanvas(d videoframe.Dimensions) image.Image {
	w, h := d.W, d.H
	var hw, hh float64 = float64(w / 2), float64(h / 2)
	r := math.Min(hw, hh)
	θ := 2 * math.Pi / 3
	cr := &circle{hw - r*math.Sin(0), hh - r*math.Cos(0), r * 1.5}
	cg := &circle{hw - r*math.Sin(θ), hh - r*math.Cos(θ), r * 1.5}
	cb := &circle{hw - r*math.Sin(-θ), hh - r*math.Cos(-θ), r * 1.5}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			c := color.RGBA{
				cr.Brightness(float64(x), float64(y)),
				cg.Brightness(float64(x), float64(y)),
				cb.Brightness(float64(x), float64(y)),
				255,
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func cloneImage(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, src, b.Min, draw.Src)
	return dst
}

func drawText(canvas *image.RGBA, x, y int, text string) error {
	fontFace, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return err
	}

	fontSize := math.Max(8, float64(canvas.Bounds().Dy())/10)
	fontDrawer := &font.Drawer{
		Dst: canvas,
		Src: image.White,
		Face: truetype.NewFace(fontFace, &truetype.Options{
			Size:    fontSize,
			Hinting: font.HintingFull,
		}),
	}
	fontDrawer.Dot = fixed.Point26_6{
		X: fixed.I(x),
		Y: fixed.I(y),
	}
	fontDrawer.DrawString(text)
	return nil
}

type circle struct {
	X, Y, R float64
}

func (c *circle) Brightness(x, y float64) uint8 {
	var dx, dy float64 = c.X - x, c.Y - y
	d := math.Sqrt(dx*dx+dy*dy) / c.R
	if d > 1 {
		return 0
	}
	return 255
}
