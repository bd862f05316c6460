package rgb332_test

import (
	"testing"

	"github.com/matryer/is"
	"github.com/tauraamui/reel332/pkg/video/rgb332"
	"github.com/tauraamui/reel332/pkg/video/videoframe"
)

func TestPackKnownColours(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		want    uint8
	}{
		{name: "white", r: 255, g: 255, b: 255, want: 0xFF},
		{name: "black", r: 0, g: 0, b: 0, want: 0x00},
		{name: "red", r: 255, g: 0, b: 0, want: 0xE0},
		{name: "green", r: 0, g: 255, b: 0, want: 0x1C},
		{name: "blue", r: 0, g: 0, b: 255, want: 0x03},
		{name: "low bits dropped", r: 0x1F, g: 0x1F, b: 0x3F, want: 0x00},
		{name: "mixed", r: 0xA5, g: 0x5A, b: 0xC3, want: 0xA0 | 0x08 | 0x03},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			is.Equal(rgb332.Pack(tt.r, tt.g, tt.b), tt.want)
		})
	}
}

func TestPackMatchesBitLayoutForEveryColour(t *testing.T) {
	is := is.New(t)
	for r := 0; r < 256; r++ {
		for g := 0; g < 256; g++ {
			for b := 0; b < 256; b++ {
				want := uint8(r&0xE0) | uint8((g>>3)&0x1C) | uint8((b>>6)&0x03)
				if got := rgb332.Pack(uint8(r), uint8(g), uint8(b)); got != want {
					is.Equal(got, want) // fails with the first mismatch
				}
			}
		}
	}
}

func TestUnpackInvertsPackOnHighBits(t *testing.T) {
	is := is.New(t)
	for p := 0; p < 256; p++ {
		r, g, b := rgb332.Unpack(uint8(p))
		is.Equal(rgb332.Pack(r, g, b), uint8(p))
	}
}

func TestQuantizeIsRowMajor(t *testing.T) {
	is := is.New(t)
	frame, err := videoframe.FromRGB(2, 2, []byte{
		255, 0, 0, 0, 255, 0,
		0, 0, 255, 255, 255, 255,
	})
	is.NoErr(err)

	is.Equal(rgb332.Quantize(frame), []byte{0xE0, 0x1C, 0x03, 0xFF})
}

func TestQuantizeLengthIsArea(t *testing.T) {
	is := is.New(t)
	frame := videoframe.New(videoframe.Dimensions{W: 320, H: 240})
	out := rgb332.Quantize(frame)
	is.Equal(len(out), 320*240)
	for _, p := range out {
		if p != 0 {
			is.Fail()
		}
	}
}

func TestQuantizeEmptyFrame(t *testing.T) {
	is := is.New(t)
	is.Equal(len(rgb332.Quantize(videoframe.Frame{})), 0)
}
