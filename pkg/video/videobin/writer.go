package videobin

import (
	"math"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/tauraamui/xerror"
)

// Writer streams frame payloads into a temporary file next to the
// destination. The frame count is patched into the header on Commit and
// only then is the file renamed into place, so the destination either holds
// a complete artifact or is left untouched.
type Writer struct {
	fs     afero.Fs
	path   string
	tmp    afero.File
	header Header
	frames int
	closed bool
}

func Create(fs afero.Fs, path string, width, height, fps int) (*Writer, error) {
	if width < 1 || width > math.MaxUint16 || height < 1 || height > math.MaxUint16 {
		return nil, xerror.Errorf("cannot write %dx%d frames into a 16 bit header", width, height)
	}
	if fps < 1 || fps > 1000 {
		return nil, xerror.Errorf("frame rate %d has no whole millisecond duration", fps)
	}

	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, os.ModePerm|os.ModeDir); err != nil && !os.IsExist(err) {
		return nil, err
	}

	tmp, err := afero.TempFile(fs, dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, xerror.Errorf("unable to create temp file for %s: %w", path, err)
	}

	w := Writer{
		fs: fs, path: path, tmp: tmp,
		header: Header{
			Width: uint16(width), Height: uint16(height),
			FrameDurationMs: FrameDuration(fps),
		},
	}

	placeholder, _ := w.header.MarshalBinary()
	if _, err := tmp.Write(placeholder); err != nil {
		w.Abort() //nolint
		return nil, err
	}
	return &w, nil
}

func (w *Writer) Header() Header { return w.header }

func (w *Writer) Frames() int { return w.frames }

func (w *Writer) WriteFrame(payload []byte) error {
	if w.closed {
		return xerror.New("cannot write frame to closed writer")
	}
	if int64(len(payload)) != w.header.FrameSize() {
		return xerror.Errorf(
			"got %d bytes, want %d: %w", len(payload), w.header.FrameSize(), ErrFrameSize,
		)
	}
	if w.frames >= MaxFrames {
		return xerror.Errorf("more than %d frames: %w", MaxFrames, ErrFrameCountOverflow)
	}
	if _, err := w.tmp.Write(payload); err != nil {
		return err
	}
	w.frames++
	return nil
}

// Commit finalises the header and moves the artifact to its destination,
// returning its size in bytes. A writer with no frames is aborted instead.
func (w *Writer) Commit() (int64, error) {
	if w.closed {
		return 0, xerror.New("writer already closed")
	}
	if w.frames == 0 {
		if err := w.Abort(); err != nil {
			return 0, err
		}
		return 0, xerror.Errorf("%s: %w", w.path, ErrEmptyOutput)
	}

	w.header.FrameCount = uint16(w.frames)
	b, _ := w.header.MarshalBinary()
	if _, err := w.tmp.WriteAt(b, 0); err != nil {
		w.Abort() //nolint
		return 0, err
	}
	if err := w.tmp.Sync(); err != nil {
		w.Abort() //nolint
		return 0, err
	}

	name := w.tmp.Name()
	w.closed = true
	if err := w.tmp.Close(); err != nil {
		w.fs.Remove(name) //nolint
		return 0, err
	}
	// temp files are created owner only
	if err := w.fs.Chmod(name, 0644); err != nil {
		w.fs.Remove(name) //nolint
		return 0, err
	}
	if err := w.fs.Rename(name, w.path); err != nil {
		w.fs.Remove(name) //nolint
		return 0, xerror.Errorf("unable to move artifact into %s: %w", w.path, err)
	}

	return w.header.Size(), nil
}

// Abort discards everything written so far. Safe to call after Commit.
func (w *Writer) Abort() error {
	if w.closed {
		return nil
	}
	w.closed = true
	name := w.tmp.Name()
	w.tmp.Close() //nolint
	if err := w.fs.Remove(name); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
