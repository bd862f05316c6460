package convert

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/spf13/afero"
	"github.com/tauraamui/reel332/pkg/log"
	"github.com/tauraamui/reel332/pkg/video/rgb332"
	"github.com/tauraamui/reel332/pkg/video/videobin"
	"github.com/tauraamui/reel332/pkg/video/videoframe"
	"github.com/tauraamui/reel332/pkg/video/videorate"
	"github.com/tauraamui/reel332/pkg/video/videoscale"
	"github.com/tauraamui/reel332/pkg/video/videosource"
	"github.com/tauraamui/xerror"
)

var ErrSourceOpen = errors.New("unable to open source")

// Settings fixes the output format for every file a Converter handles.
type Settings struct {
	Target videoframe.Dimensions
	FPS    int
}

func DefaultSettings() Settings {
	return Settings{
		Target: videoframe.Dimensions{W: 320, H: 240},
		FPS:    10,
	}
}

// EstimatedSize is the artifact size expected for a source, assuming the
// container's frame count is accurate.
func (s Settings) EstimatedSize(info videosource.Info) (frames int, size int64) {
	frames = info.FrameCount / videorate.Stride(info.FPS, s.FPS)
	return frames, videobin.HeaderSize + int64(frames)*int64(s.Target.Area())
}

type Progress struct {
	Input    string
	Decoded  int
	Retained int
	// Expected is the decoded frame count the source claims, 0 if unknown.
	Expected int
}

type Result struct {
	Input   string
	Output  string
	Source  videosource.Info
	Stride  int
	Decoded int
	Frames  int
	Bytes   int64
	Elapsed time.Duration
}

type Option func(*Converter)

func WithFs(fs afero.Fs) Option {
	return func(c *Converter) { c.fs = fs }
}

func WithProgress(fn func(Progress)) Option {
	return func(c *Converter) { c.progress = fn }
}

type Converter struct {
	opener   videosource.Opener
	settings Settings
	fs       afero.Fs
	progress func(Progress)
}

func New(opener videosource.Opener, settings Settings, opts ...Option) *Converter {
	c := Converter{
		opener:   opener,
		settings: settings,
		fs:       afero.NewOsFs(),
		progress: func(Progress) {},
	}
	for _, opt := range opts {
		opt(&c)
	}
	return &c
}

func (c *Converter) Settings() Settings { return c.settings }

// Convert decodes in and writes the re-encoded artifact to out. On any
// error nothing is left at out, including an artifact from an earlier run.
// The source handle is released on every return path.
func (c *Converter) Convert(ctx context.Context, in, out string) (Result, error) {
	res, err := c.convert(ctx, in, out)
	if err != nil {
		c.removeStale(out)
	}
	return res, err
}

func (c *Converter) removeStale(out string) {
	if err := c.fs.Remove(out); err != nil && !os.IsNotExist(err) {
		log.Warn("unable to remove stale artifact %s: %v", out, err)
	}
}

func (c *Converter) convert(ctx context.Context, in, out string) (Result, error) {
	start := time.Now()
	res := Result{Input: in, Output: out}

	src, err := c.opener.Open(ctx, in)
	if err != nil {
		return res, xerror.Errorf("%s: %v: %w", in, err, ErrSourceOpen)
	}
	defer func() {
		if err := src.Close(); err != nil {
			log.Warn("unable to close video source %s: %v", in, err)
		}
	}()

	res.Source = src.Info()
	decimator := videorate.NewDecimator(videorate.Stride(res.Source.FPS, c.settings.FPS))
	res.Stride = decimator.Stride()

	estFrames, estSize := c.settings.EstimatedSize(res.Source)
	log.Info("Source: %s", res.Source)
	log.Info(
		"Output: %dx%d @ %dfps, ~%d frames, est. %.1f MB",
		c.settings.Target.W, c.settings.Target.H, c.settings.FPS, estFrames, float64(estSize)/1024/1024,
	)

	w, err := videobin.Create(c.fs, out, c.settings.Target.W, c.settings.Target.H, c.settings.FPS)
	if err != nil {
		return res, err
	}
	defer w.Abort() //nolint

	if err := c.pump(ctx, in, src, decimator, w); err != nil {
		return res, err
	}

	res.Decoded = decimator.Decoded()
	res.Frames = w.Frames()
	size, err := w.Commit()
	if err != nil {
		return res, err
	}
	res.Bytes = size
	res.Elapsed = time.Since(start)
	return res, nil
}

func (c *Converter) pump(
	ctx context.Context, in string, src videosource.Source, decimator *videorate.Decimator, w *videobin.Writer,
) error {
	expected := src.Info().FrameCount
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		frame, err := src.Read()
		if err != nil {
			switch {
			case errors.Is(err, io.EOF):
				return nil
			case errors.Is(err, videoframe.ErrInvalidFrame):
				return err
			}
			log.Warn("%s: read failed after %d frames, ending stream: %v", in, decimator.Decoded(), err)
			return nil
		}

		if decimator.Keep() {
			if err := c.writeFrame(w, frame); err != nil {
				return err
			}
		}

		c.progress(Progress{
			Input: in, Decoded: decimator.Decoded(), Retained: w.Frames(), Expected: expected,
		})
	}
}

func (c *Converter) writeFrame(w *videobin.Writer, frame videoframe.Frame) error {
	canvas, err := videoscale.Normalize(frame, c.settings.Target)
	if err != nil {
		return err
	}
	return w.WriteFrame(rgb332.Quantize(canvas))
}
