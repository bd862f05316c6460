// Package videosource describes what the conversion pipeline needs from a
// decoder: metadata about a file and a forward only stream of RGB frames.
//
// Implementations live in videobackend. The pipeline only ever sees frames
// in logical R, G, B order; backends whose native layout differs convert at
// their boundary.
package videosource

import (
	"context"
	"fmt"

	"github.com/tauraamui/reel332/pkg/video/videoframe"
)

type Info struct {
	videoframe.Dimensions
	// FPS is whatever the container reports, 0 when unknown.
	FPS float64
	// FrameCount is an estimate, containers are free to lie about it.
	FrameCount int
}

func (i Info) String() string {
	return fmt.Sprintf("%dx%d @ %.1ffps, %d frames", i.W, i.H, i.FPS, i.FrameCount)
}

// Source is owned by exactly one conversion. Read returns io.EOF once the
// stream is exhausted. Close must be called on every exit path.
type Source interface {
	Info() Info
	Read() (videoframe.Frame, error)
	Close() error
}

type Opener interface {
	Open(ctx context.Context, path string) (Source, error)
}

// OpenerFunc adapts a plain function to an Opener.
type OpenerFunc func(ctx context.Context, path string) (Source, error)

func (f OpenerFunc) Open(ctx context.Context, path string) (Source, error) {
	return f(ctx, path)
}
