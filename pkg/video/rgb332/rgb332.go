// Package rgb332 packs 24 bit colour into the single byte per pixel
// format the playback device blits straight to its panel.
//
// Bit layout, most significant first: RRRGGGBB. The reduction is a plain
// truncation of the low bits of each channel. There is no dithering or gamma
// handling, players expect these exact values.
package rgb332

import "github.com/tauraamui/reel332/pkg/video/videoframe"

const (
	redMask   = 0xE0
	greenMask = 0x1C
	blueMask  = 0x03
)

func Pack(r, g, b uint8) uint8 {
	return (r & redMask) | ((g >> 3) & greenMask) | ((b >> 6) & blueMask)
}

// Unpack expands a packed pixel back to 24 bit by placing each channel in
// its high bits, the same expansion the device performs.
func Unpack(p uint8) (r, g, b uint8) {
	return p & redMask, (p & greenMask) << 3, (p & blueMask) << 6
}

// Quantize returns one byte per pixel, row major, top to bottom and left
// to right.
func Quantize(f videoframe.Frame) []byte {
	d := f.Dimensions()
	out := make([]byte, d.Area())
	if d.Empty() {
		return out[:0]
	}

	img := f.Image()
	i := 0
	for y := 0; y < d.H; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+d.W*4]
		for x := 0; x < len(row); x += 4 {
			out[i] = Pack(row[x], row[x+1], row[x+2])
			i++
		}
	}
	return out
}
