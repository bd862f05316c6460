package videoscale

import (
	"image"
	"math"

	"github.com/tauraamui/reel332/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
	"golang.org/x/image/draw"
)

// areaKernel gives every source pixel under a destination pixel the same
// weight. On reduction the kernel is stretched across the whole footprint so
// the result is the area average.
var areaKernel = &draw.Kernel{
	Support: 0.5,
	At:      func(t float64) float64 { return 1 },
}

// Fit works out the size the source is scaled to in order to fit inside
// target with its aspect ratio kept, and the offset that centres it. An
// empty source or target fits nothing.
func Fit(src, target videoframe.Dimensions) (videoframe.Dimensions, image.Point) {
	if src.Empty() || target.Empty() {
		return videoframe.Dimensions{}, image.Point{}
	}

	scale := math.Min(
		float64(target.W)/float64(src.W),
		float64(target.H)/float64(src.H),
	)

	size := videoframe.Dimensions{
		W: clamp(int(math.Floor(float64(src.W)*scale)), 1, target.W),
		H: clamp(int(math.Floor(float64(src.H)*scale)), 1, target.H),
	}
	return size, image.Pt((target.W-size.W)/2, (target.H-size.H)/2)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Normalize letterboxes or pillarboxes the frame onto a black canvas of
// exactly target dimensions.
func Normalize(f videoframe.Frame, target videoframe.Dimensions) (videoframe.Frame, error) {
	if err := f.Validate(); err != nil {
		return videoframe.Frame{}, err
	}
	if target.Empty() {
		return videoframe.Frame{}, xerror.Errorf(
			"target canvas %dx%d: %w", target.W, target.H, videoframe.ErrInvalidFrame,
		)
	}

	src := f.Dimensions()
	size, offset := Fit(src, target)

	canvas := videoframe.New(target)
	dr := image.Rectangle{Min: offset, Max: offset.Add(image.Pt(size.W, size.H))}
	srcImg := f.Image()

	switch {
	case size == src:
		draw.Copy(canvas.Image(), offset, srcImg, srcImg.Bounds(), draw.Src, nil)
	case size.W < src.W || size.H < src.H:
		areaKernel.Scale(canvas.Image(), dr, srcImg, srcImg.Bounds(), draw.Src, nil)
	default:
		draw.BiLinear.Scale(canvas.Image(), dr, srcImg, srcImg.Bounds(), draw.Src, nil)
	}

	return canvas, nil
}
