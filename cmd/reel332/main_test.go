package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/tauraamui/reel332/pkg/batch"
	"github.com/tauraamui/reel332/pkg/log"
	"github.com/tauraamui/reel332/pkg/video/videobackend"
	"github.com/tauraamui/reel332/pkg/video/videobin"
	"github.com/tauraamui/reel332/pkg/video/videoframe"
	"github.com/tauraamui/reel332/pkg/video/videosource"
)

type CLITestSuite struct {
	suite.Suite
	fs         afero.Fs
	out        *bytes.Buffer
	configPath string
	backends   []string
	logged     []string

	fsRef             afero.Fs
	writerRef         io.Writer
	resolveBackendRef func(string) videosource.Opener
	logRefs           [4]func(string, ...interface{})
}

func (suite *CLITestSuite) SetupTest() {
	suite.fsRef, suite.writerRef, suite.resolveBackendRef = fs, app.Writer, resolveBackend
	suite.logRefs = [4]func(string, ...interface{}){log.Debug, log.Info, log.Warn, log.Error}

	suite.fs = afero.NewMemMapFs()
	suite.out = &bytes.Buffer{}
	suite.backends = nil
	suite.logged = nil
	fs = suite.fs
	app.Writer = suite.out

	discard := func(string, ...interface{}) {}
	log.Debug, log.Info, log.Warn = discard, discard, discard
	log.Error = func(format string, a ...interface{}) {
		suite.logged = append(suite.logged, format)
	}

	// short mock streams keep the runs fast, inputs named broken fail to open
	resolveBackend = func(name string) videosource.Opener {
		suite.backends = append(suite.backends, name)
		mock := videobackend.MockWithSettings(videobackend.MockSettings{
			Dimensions: videoframe.Dimensions{W: 64, H: 48},
			FPS:        30,
			Frames:     6,
		})
		return videosource.OpenerFunc(func(ctx context.Context, path string) (videosource.Source, error) {
			if strings.Contains(filepath.Base(path), "broken") {
				return nil, errors.New("unsupported codec")
			}
			return mock.Open(ctx, path)
		})
	}

	suite.configPath = suite.writeConfig(`{"backend": "mock"}`)
}

func (suite *CLITestSuite) TearDownTest() {
	fs, app.Writer, resolveBackend = suite.fsRef, suite.writerRef, suite.resolveBackendRef
	log.Debug, log.Info, log.Warn, log.Error = suite.logRefs[0], suite.logRefs[1], suite.logRefs[2], suite.logRefs[3]
}

// writeConfig puts a config file on the real disk, config loading does not
// go through the command's fs.
func (suite *CLITestSuite) writeConfig(content string) string {
	path := filepath.Join(suite.T().TempDir(), "config.json")
	require.NoError(suite.T(), os.WriteFile(path, []byte(content), 0644))
	return path
}

func (suite *CLITestSuite) writeInputs(paths ...string) {
	for _, p := range paths {
		require.NoError(suite.T(), afero.WriteFile(suite.fs, p, []byte("video"), 0644))
	}
}

func (suite *CLITestSuite) outputNames(dir string) []string {
	entries, err := afero.ReadDir(suite.fs, dir)
	require.NoError(suite.T(), err)
	names := []string{}
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func (suite *CLITestSuite) TestNoArgumentsIsUsageError() {
	assert.Equal(suite.T(), errUsage, app.Run([]string{"reel332"}))
	assert.Equal(suite.T(), 1, run([]string{"reel332"}))
}

func (suite *CLITestSuite) TestSingleArgumentIsUsageError() {
	args := []string{"reel332", "--config", suite.configPath, "/in"}
	assert.Equal(suite.T(), errUsage, app.Run(args))
	assert.Equal(suite.T(), 1, run(args))
}

func (suite *CLITestSuite) TestMissingInputPathFails() {
	args := []string{"reel332", "--config", suite.configPath, "/nowhere", "/out"}

	err := app.Run(args)
	assert.True(suite.T(), errors.Is(err, batch.ErrPathNotFound))
	assert.Equal(suite.T(), 1, run(args))

	exists, _ := afero.DirExists(suite.fs, "/out")
	assert.False(suite.T(), exists)
}

func (suite *CLITestSuite) TestInputFolderWithoutVideosFails() {
	suite.writeInputs("/in/readme.txt", "/in/._clip.mp4")
	args := []string{"reel332", "--config", suite.configPath, "/in", "/out"}

	err := app.Run(args)
	assert.True(suite.T(), errors.Is(err, batch.ErrNoInputFiles))
	assert.Equal(suite.T(), 1, run(args))
}

func (suite *CLITestSuite) TestInvalidConfigFails() {
	suite.writeInputs("/in/a.mp4")
	args := []string{"reel332", "--config", suite.writeConfig(`{"fps": 0}`), "/in", "/out"}

	assert.Error(suite.T(), app.Run(args))
	assert.Equal(suite.T(), 1, run(args))
}

func (suite *CLITestSuite) TestBatchWithFailedFileSucceeds() {
	suite.writeInputs("/in/a.mp4", "/in/b_broken.mp4", "/in/c.mp4")

	code := run([]string{"reel332", "--config", suite.configPath, "--backend", "mock", "/in", "/out"})
	require.Equal(suite.T(), 0, code)

	assert.Equal(suite.T(), []string{"mock"}, suite.backends)
	assert.Contains(suite.T(), suite.out.String(), "Done! 3 files, 2 converted, 1 failed")
	assert.Equal(suite.T(), []string{"000_a.bin", "002_c.bin"}, suite.outputNames("/out"))
	require.Len(suite.T(), suite.logged, 1)
	assert.Contains(suite.T(), suite.logged[0], "failed")

	h, err := videobin.Stat(suite.fs, "/out/000_a.bin")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), videobin.Header{Width: 320, Height: 240, FrameCount: 2, FrameDurationMs: 100}, h)
}

func (suite *CLITestSuite) TestFlagsOverrideConfig() {
	suite.writeInputs("/in/a.mp4")

	err := app.Run([]string{
		"reel332", "--config", suite.configPath,
		"--workers", "2", "--fps", "5", "--width", "160", "--height", "120",
		"/in/a.mp4", "/out",
	})
	require.NoError(suite.T(), err)

	h, err := videobin.Stat(suite.fs, "/out/000_a.bin")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), videobin.Header{Width: 160, Height: 120, FrameCount: 1, FrameDurationMs: 200}, h)
}

func (suite *CLITestSuite) TestInspectReportsHeader() {
	suite.writeInputs("/in/a.mp4")
	require.NoError(suite.T(), app.Run([]string{"reel332", "--config", suite.configPath, "/in", "/out"}))
	suite.out.Reset()

	require.NoError(suite.T(), app.Run([]string{"reel332", "inspect", "/out/000_a.bin"}))
	assert.Contains(suite.T(), suite.out.String(), "/out/000_a.bin: 320x240, 2 frames, 100ms per frame")
}

func (suite *CLITestSuite) TestInspectRejectsTruncatedArtifact() {
	h := videobin.Header{Width: 2, Height: 2, FrameCount: 3, FrameDurationMs: 100}
	b, _ := h.MarshalBinary()
	require.NoError(suite.T(), afero.WriteFile(suite.fs, "/out/000_a.bin", append(b, 1, 2, 3), 0644))

	args := []string{"reel332", "inspect", "/out/000_a.bin"}
	assert.Error(suite.T(), app.Run(args))
	assert.Equal(suite.T(), 1, run(args))
}

func TestCLITestSuite(t *testing.T) {
	suite.Run(t, &CLITestSuite{})
}
