package main

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/schollz/progressbar/v3"
	"github.com/tauraamui/reel332/pkg/batch"
	"github.com/tauraamui/reel332/pkg/convert"
)

var reporter = &progressReporter{}

// progressReporter draws one bar per file. Only usable when files are
// converted one at a time, concurrent bars would overwrite each other.
type progressReporter struct {
	mu    sync.Mutex
	input string
	bar   *progressbar.ProgressBar
}

func (p *progressReporter) report(pr convert.Progress) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar == nil || p.input != pr.Input {
		p.input = pr.Input
		p.bar = progressCreate(pr.Expected, filepath.Base(pr.Input))
	}
	if pr.Expected > 0 && pr.Decoded > pr.Expected {
		p.bar.ChangeMax(pr.Decoded)
	}
	_ = p.bar.Set(pr.Decoded)
}

func (p *progressReporter) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar != nil {
		_ = p.bar.Finish()
		p.bar = nil
	}
	p.input = ""
}

func progressCreate(max int, desc string) *progressbar.ProgressBar {
	if max <= 0 {
		max = -1
	}
	return progressbar.NewOptions(max,
		progressbar.OptionSetDescription(desc),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}

// progressConverter clears the bar once a file is done so the runner's
// result line is not drawn over it.
type progressConverter struct {
	conv     batch.Converter
	reporter *progressReporter
}

func (pc progressConverter) Convert(ctx context.Context, in, out string) (convert.Result, error) {
	defer pc.reporter.finish()
	return pc.conv.Convert(ctx, in, out)
}
