package videorate

import "math"

// Stride is the fixed decimation interval that brings sourceFPS down to
// roughly targetFPS. Ties round to even, so 25fps against a 10fps target
// gives a stride of 2. Unknown or non-positive source rates keep every frame.
func Stride(sourceFPS float64, targetFPS int) int {
	if targetFPS <= 0 || sourceFPS <= 0 || math.IsNaN(sourceFPS) || math.IsInf(sourceFPS, 0) {
		return 1
	}
	s := int(math.RoundToEven(sourceFPS / float64(targetFPS)))
	if s < 1 {
		return 1
	}
	return s
}

// Decimator decides frame by frame whether a decoded frame is retained.
// The index counts every frame handed to Keep, not only retained ones.
type Decimator struct {
	stride int
	index  int
}

func NewDecimator(stride int) *Decimator {
	if stride < 1 {
		stride = 1
	}
	return &Decimator{stride: stride}
}

// Keep reports whether the frame at the current decode index is retained
// and advances the index.
func (d *Decimator) Keep() bool {
	keep := d.index%d.stride == 0
	d.index++
	return keep
}

func (d *Decimator) Stride() int { return d.stride }

// Decoded is the number of frames seen so far.
func (d *Decimator) Decoded() int { return d.index }
