package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"github.com/tauraamui/reel332/pkg/batch"
	"github.com/tauraamui/reel332/pkg/config"
	"github.com/tauraamui/reel332/pkg/configdef"
	"github.com/tauraamui/reel332/pkg/convert"
	"github.com/tauraamui/reel332/pkg/log"
	"github.com/tauraamui/reel332/pkg/video/videobackend"
	"github.com/tauraamui/reel332/pkg/video/videobin"
	"github.com/tauraamui/reel332/pkg/video/videoframe"
	"github.com/urfave/cli"
)

const (
	name        = "reel332"
	description = "Converts videos into RGB332 frame reels for small embedded displays"
)

var errUsage = errors.New("expected <input_path> <output_folder>")

var fs = afero.NewOsFs()

var resolveBackend = videobackend.Resolve

var app = cli.NewApp()

func init() {
	log.SetLevel(os.Getenv("REEL332_LOGGING_LEVEL"))

	app.Name = name
	app.Usage = description
	app.UsageText = "reel332 [options] <input_path> <output_folder>\n   reel332 inspect <file.bin>..."
	app.HideVersion = true
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "config, c", Usage: "load settings from `FILE`", EnvVar: "REEL332_CONFIG"},
		cli.StringFlag{Name: "backend, b", Usage: "video decode backend, opencv or mock", EnvVar: "REEL332_VIDEO_BACKEND"},
		cli.IntFlag{Name: "workers, w", Usage: "number of files converted in parallel"},
		cli.IntFlag{Name: "fps", Usage: "output frame rate"},
		cli.IntFlag{Name: "width", Usage: "output frame width"},
		cli.IntFlag{Name: "height", Usage: "output frame height"},
	}
	app.Action = convertAction
	app.Commands = []cli.Command{
		{
			Name:      "inspect",
			Aliases:   []string{"i"},
			Usage:     "Print and verify the header of converted files",
			ArgsUsage: "<file.bin>...",
			Action:    inspectAction,
		},
	}
}

func convertAction(c *cli.Context) error {
	if c.NArg() < 2 {
		cli.ShowAppHelp(c) //nolint
		return errUsage
	}
	input, output := c.Args().Get(0), c.Args().Get(1)

	values, err := resolveValues(c)
	if err != nil {
		return err
	}
	if values.Debug {
		log.SetLevel("debug")
	}

	files, err := batch.Enumerate(fs, input, values.Extensions)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []convert.Option{convert.WithFs(fs)}
	if values.Workers == 1 {
		opts = append(opts, convert.WithProgress(reporter.report))
	}

	var conv batch.Converter = convert.New(
		resolveBackend(values.Backend),
		convert.Settings{
			Target: videoframe.Dimensions{W: values.Width, H: values.Height},
			FPS:    values.FPS,
		},
		opts...,
	)
	if values.Workers == 1 {
		conv = progressConverter{conv: conv, reporter: reporter}
	}

	runner := batch.NewRunner(fs, conv, batch.Settings{
		Workers:     values.Workers,
		FileTimeout: time.Duration(values.FileTimeoutSeconds) * time.Second,
	})

	summary, err := runner.Run(ctx, files, output)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.App.Writer, summary)
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("conversion interrupted: %w", err)
	}
	return nil
}

func resolveValues(c *cli.Context) (configdef.Values, error) {
	values, err := config.DefaultResolver(c.String("config")).Load()
	if err != nil {
		return values, err
	}

	if backend := c.String("backend"); len(backend) > 0 {
		values.Backend = backend
	}
	if c.IsSet("workers") {
		values.Workers = c.Int("workers")
	}
	if c.IsSet("fps") {
		values.FPS = c.Int("fps")
	}
	if c.IsSet("width") {
		values.Width = c.Int("width")
	}
	if c.IsSet("height") {
		values.Height = c.Int("height")
	}

	return values, values.RunValidate()
}

func inspectAction(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelp(c, "inspect") //nolint
		return errors.New("expected at least one <file.bin>")
	}

	failed := 0
	for _, path := range c.Args() {
		h, err := videobin.Stat(fs, path)
		if err != nil {
			log.Error("%s: %v", path, err)
			failed++
			continue
		}
		fmt.Fprintf(
			c.App.Writer, "%s: %dx%d, %d frames, %dms per frame (%.1fs), %d bytes\n",
			path, h.Width, h.Height, h.FrameCount, h.FrameDurationMs,
			float64(h.FrameCount)*float64(h.FrameDurationMs)/1000, h.Size(),
		)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed verification", failed, c.NArg())
	}
	return nil
}

// run is main without the exit, any error is reported and gives status 1.
func run(args []string) int {
	if err := app.Run(args); err != nil {
		log.Error(err.Error())
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args))
}
