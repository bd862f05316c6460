package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/tauraamui/reel332/pkg/convert"
	"github.com/tauraamui/reel332/pkg/log"
	"github.com/tauraamui/xerror"
	"golang.org/x/sync/errgroup"
)

type Converter interface {
	Convert(ctx context.Context, in, out string) (convert.Result, error)
}

type Settings struct {
	// Workers is how many files convert at once, anything below 1 means 1.
	Workers int
	// FileTimeout bounds a single conversion, 0 disables it.
	FileTimeout time.Duration
}

type Runner struct {
	fs       afero.Fs
	conv     Converter
	settings Settings
}

func NewRunner(fs afero.Fs, conv Converter, settings Settings) *Runner {
	if settings.Workers < 1 {
		settings.Workers = 1
	}
	return &Runner{fs: fs, conv: conv, settings: settings}
}

// OutputName is the artifact file name for the input at index, the zero
// padded prefix keeps playback order equal to enumeration order.
func OutputName(index int, input string) string {
	base := filepath.Base(input)
	return fmt.Sprintf("%03d_%s.bin", index, strings.TrimSuffix(base, filepath.Ext(base)))
}

type outcome struct {
	result convert.Result
	err    error
}

// Run converts every file into outDir. A failing file is logged and
// recorded in the summary, it never stops the rest of the batch. The only
// error returned is failure to create outDir.
func (r *Runner) Run(ctx context.Context, files []string, outDir string) (Summary, error) {
	start := time.Now()
	summary := Summary{Files: len(files)}

	if err := r.fs.MkdirAll(outDir, os.ModePerm|os.ModeDir); err != nil && !os.IsExist(err) {
		return summary, xerror.Errorf("unable to create output folder %s: %w", outDir, err)
	}

	log.Info("Found %d video(s) to convert", len(files))

	outcomes := make([]outcome, len(files))
	g := errgroup.Group{}
	g.SetLimit(r.settings.Workers)
	for i, file := range files {
		i, file := i, file
		if err := ctx.Err(); err != nil {
			outcomes[i] = outcome{err: err}
			continue
		}
		g.Go(func() error {
			outcomes[i] = r.runJob(ctx, i, len(files), file, filepath.Join(outDir, OutputName(i, file)))
			return nil
		})
	}
	g.Wait() //nolint

	for i, o := range outcomes {
		if o.err != nil {
			summary.Failures = append(summary.Failures, Failure{Index: i, Input: files[i], Err: o.err})
			continue
		}
		summary.Converted++
		summary.TotalBytes += o.result.Bytes
	}
	summary.Elapsed = time.Since(start)
	return summary, nil
}

func (r *Runner) runJob(ctx context.Context, index, total int, in, out string) outcome {
	jobID := uuid.NewString()
	if r.settings.FileTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.settings.FileTimeout)
		defer cancel()
	}

	log.Info("[%d/%d] %s", index+1, total, filepath.Base(in))
	log.Debug("job %s: %s -> %s", jobID, in, out)

	res, err := r.conv.Convert(ctx, in, out)
	if err != nil {
		log.Error("[%d/%d] %s failed: %v", index+1, total, in, err)
		return outcome{result: res, err: err}
	}

	log.Info(
		"[%d/%d] wrote %s (%d frames, %.1f MB) in %.1fs",
		index+1, total, out, res.Frames, float64(res.Bytes)/1024/1024, res.Elapsed.Seconds(),
	)
	log.Debug("job %s: decoded %d frames with stride %d", jobID, res.Decoded, res.Stride)
	return outcome{result: res}
}
