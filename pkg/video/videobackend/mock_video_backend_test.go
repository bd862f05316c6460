package videobackend_test

import (
	"context"
	"io"
	"testing"

	"github.com/matryer/is"
	"github.com/tauraamui/reel332/pkg/video/videobackend"
	"github.com/tauraamui/reel332/pkg/video/videoframe"
)

func TestMockSourceReadsConfiguredFrameCountThenEOF(t *testing.T) {
	is := is.New(t)
	backend := videobackend.MockWithSettings(videobackend.MockSettings{
		Dimensions: videoframe.Dimensions{W: 64, H: 48},
		FPS:        25,
		Frames:     3,
	})

	src, err := backend.Open(context.Background(), "/videos/clip.mp4")
	is.NoErr(err)
	defer src.Close()

	is.Equal(src.Info().W, 64)
	is.Equal(src.Info().H, 48)
	is.Equal(src.Info().FPS, 25.0)
	is.Equal(src.Info().FrameCount, 3)

	for i := 0; i < 3; i++ {
		frame, err := src.Read()
		is.NoErr(err)
		is.Equal(frame.Dimensions(), videoframe.Dimensions{W: 64, H: 48})
	}

	_, err = src.Read()
	is.Equal(err, io.EOF)
}

func TestMockOpenFailsOnCancelledContext(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src, err := videobackend.Mock().Open(ctx, "/videos/clip.mp4")
	is.True(src == nil)
	is.Equal(err, context.Canceled)
}

func TestMockOpenFailsOnEmptyDimensions(t *testing.T) {
	is := is.New(t)
	backend := videobackend.MockWithSettings(videobackend.MockSettings{Frames: 1})

	_, err := backend.Open(context.Background(), "/videos/clip.mp4")
	is.True(err != nil)
}
