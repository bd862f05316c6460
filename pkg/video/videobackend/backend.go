package videobackend

import (
	"strings"

	"github.com/spf13/afero"
	"github.com/tauraamui/reel332/pkg/video/videosource"
)

var fs = afero.NewOsFs()

const (
	OpenCVName = "opencv"
	MockName   = "mock"
)

func Default() videosource.Opener {
	return OpenCV()
}

func OpenCV() videosource.Opener {
	return &openCVBackend{}
}

func Mock() videosource.Opener {
	return MockWithSettings(DefaultMockSettings())
}

func MockWithSettings(s MockSettings) videosource.Opener {
	return &mockVideoBackend{settings: s}
}

func Resolve(t string) videosource.Opener {
	switch strings.ToLower(t) {
	case MockName:
		return Mock()
	default:
		return Default()
	}
}
