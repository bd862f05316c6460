package videobin

import (
	"encoding/binary"
	"errors"
	"io"
	"math"

	"github.com/spf13/afero"
	"github.com/tauraamui/xerror"
)

// HeaderSize is the fixed length of the header preceding the frame payloads.
const HeaderSize = 8

const MaxFrames = math.MaxUint16

var (
	ErrEmptyOutput        = errors.New("no frames to write")
	ErrCorruptArtifact    = errors.New("corrupt artifact")
	ErrFrameCountOverflow = errors.New("frame count exceeds header capacity")
	ErrFrameSize          = errors.New("frame payload has wrong length")
)

// Header is laid out little endian as four uint16 values in field order.
type Header struct {
	Width           uint16
	Height          uint16
	FrameCount      uint16
	FrameDurationMs uint16
}

// FrameDuration is the per frame display time in whole milliseconds.
func FrameDuration(fps int) uint16 {
	if fps <= 0 {
		return 0
	}
	return uint16(1000 / fps)
}

func (h Header) FrameSize() int64 {
	return int64(h.Width) * int64(h.Height)
}

// Size is the exact byte length of an artifact carrying this header.
func (h Header) Size() int64 {
	return HeaderSize + int64(h.FrameCount)*h.FrameSize()
}

func (h Header) MarshalBinary() ([]byte, error) {
	b := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint16(b[0:2], h.Width)
	binary.LittleEndian.PutUint16(b[2:4], h.Height)
	binary.LittleEndian.PutUint16(b[4:6], h.FrameCount)
	binary.LittleEndian.PutUint16(b[6:8], h.FrameDurationMs)
	return b, nil
}

func (h *Header) UnmarshalBinary(b []byte) error {
	if len(b) < HeaderSize {
		return xerror.Errorf("header needs %d bytes, got %d: %w", HeaderSize, len(b), ErrCorruptArtifact)
	}
	h.Width = binary.LittleEndian.Uint16(b[0:2])
	h.Height = binary.LittleEndian.Uint16(b[2:4])
	h.FrameCount = binary.LittleEndian.Uint16(b[4:6])
	h.FrameDurationMs = binary.LittleEndian.Uint16(b[6:8])
	return nil
}

func ReadHeader(r io.Reader) (Header, error) {
	b := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, b); err != nil {
		return Header{}, xerror.Errorf("unable to read header: %v: %w", err, ErrCorruptArtifact)
	}
	h := Header{}
	err := h.UnmarshalBinary(b)
	return h, err
}

// Stat reads the header of the artifact at path and checks the file holds
// exactly the payload bytes the header claims.
func Stat(fs afero.Fs, path string) (Header, error) {
	f, err := fs.Open(path)
	if err != nil {
		return Header{}, err
	}
	defer f.Close()

	h, err := ReadHeader(f)
	if err != nil {
		return Header{}, err
	}

	info, err := f.Stat()
	if err != nil {
		return Header{}, err
	}

	if info.Size() != h.Size() {
		return h, xerror.Errorf(
			"%s is %d bytes, header describes %d: %w", path, info.Size(), h.Size(), ErrCorruptArtifact,
		)
	}
	return h, nil
}
