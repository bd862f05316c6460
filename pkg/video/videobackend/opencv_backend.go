package videobackend

import (
	"context"
	"io"
	"math"
	"sync"

	"github.com/google/uuid"
	"github.com/tauraamui/reel332/pkg/log"
	"github.com/tauraamui/reel332/pkg/video/videoframe"
	"github.com/tauraamui/reel332/pkg/video/videosource"
	"github.com/tauraamui/xerror"
	"gocv.io/x/gocv"
)

type openCVBackend struct{}

func (b *openCVBackend) Open(cancel context.Context, path string) (videosource.Source, error) {
	if _, err := fs.Stat(path); err != nil {
		return nil, err
	}

	src := openCVSource{}
	if err := src.open(cancel, path); err != nil {
		return nil, err
	}
	return &src, nil
}

type openCVSource struct {
	uuid   string
	mu     sync.Mutex
	isOpen bool
	vc     *gocv.VideoCapture
	mat    gocv.Mat
	info   videosource.Info
}

func (s *openCVSource) open(cancel context.Context, path string) error {
	// buffered so an abandoned open can still hand its capture back
	captureAndError := make(chan openVideoFileResult, 1)
	go openVideoFile(path, captureAndError)
	select {
	case r := <-captureAndError:
		if r.err != nil {
			return r.err
		}
		if !r.vc.IsOpened() {
			r.vc.Close() //nolint
			return xerror.Errorf("OpenCV cannot decode %s", path)
		}
		s.vc = r.vc
		s.mat = gocv.NewMat()
		s.info = readInfo(r.vc)
		s.isOpen = true
		log.Debug("opened %s [%s]: %s", path, s.UUID(), s.info)
		return nil
	case <-cancel.Done():
		go func() {
			if r := <-captureAndError; r.vc != nil {
				r.vc.Close() //nolint
			}
		}()
		return xerror.Errorf("opening %s cancelled: %w", path, cancel.Err())
	}
}

type openVideoFileResult struct {
	vc  *gocv.VideoCapture
	err error
}

func openVideoFile(path string, d chan openVideoFileResult) {
	vc, err := openVideoCapture(path)
	d <- openVideoFileResult{vc: vc, err: err}
}

var openVideoCapture = func(path string) (*gocv.VideoCapture, error) {
	return gocv.OpenVideoCapture(path)
}

var readFromVideoCapture = func(vc *gocv.VideoCapture, mat *gocv.Mat) bool {
	if vc.IsOpened() {
		return vc.Read(mat)
	}
	return false
}

func readInfo(vc *gocv.VideoCapture) videosource.Info {
	fps := vc.Get(gocv.VideoCaptureFPS)
	if math.IsNaN(fps) || math.IsInf(fps, 0) || fps < 0 {
		fps = 0
	}
	return videosource.Info{
		Dimensions: videoframe.Dimensions{
			W: int(vc.Get(gocv.VideoCaptureFrameWidth)),
			H: int(vc.Get(gocv.VideoCaptureFrameHeight)),
		},
		FPS:        fps,
		FrameCount: int(vc.Get(gocv.VideoCaptureFrameCount)),
	}
}

func (s *openCVSource) UUID() string {
	if len(s.uuid) == 0 {
		s.uuid = uuid.NewString()
	}
	return s.uuid
}

func (s *openCVSource) Info() videosource.Info {
	return s.info
}

// Read decodes the next frame. A failed read is reported as io.EOF, OpenCV
// gives no way to tell a truncated stream from a finished one.
func (s *openCVSource) Read() (videoframe.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isOpen {
		return videoframe.Frame{}, xerror.New("cannot read from closed video source")
	}
	if ok := readFromVideoCapture(s.vc, &s.mat); !ok || s.mat.Empty() {
		return videoframe.Frame{}, io.EOF
	}
	return frameFromMat(s.mat)
}

// frameFromMat copies a decoded matrix out of OpenCV. Capture output is
// 8 bit BGR, BGRA or single channel grey, all of which end up as RGB.
func frameFromMat(mat gocv.Mat) (videoframe.Frame, error) {
	var code gocv.ColorConversionCode
	switch mat.Channels() {
	case 3:
		return videoframe.FromBGR(mat.Cols(), mat.Rows(), mat.ToBytes())
	case 4:
		code = gocv.ColorBGRAToBGR
	case 1:
		code = gocv.ColorGrayToBGR
	default:
		return videoframe.Frame{}, xerror.Errorf(
			"unsupported %d channel frame: %w", mat.Channels(), videoframe.ErrInvalidFrame,
		)
	}

	bgr := gocv.NewMat()
	defer bgr.Close()
	gocv.CvtColor(mat, &bgr, code)
	return videoframe.FromBGR(bgr.Cols(), bgr.Rows(), bgr.ToBytes())
}

func (s *openCVSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isOpen {
		return nil
	}
	s.isOpen = false
	s.mat.Close() //nolint
	return s.vc.Close()
}
