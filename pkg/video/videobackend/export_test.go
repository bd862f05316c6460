package videobackend

import (
	"github.com/spf13/afero"
	"gocv.io/x/gocv"
)

var FrameFromMat = frameFromMat

func OverloadFS(overload afero.Fs) func() {
	fsRef := fs
	fs = overload
	return func() { fs = fsRef }
}

func OverloadOpenVideoCapture(overload func(string) (*gocv.VideoCapture, error)) func() {
	openVideoCaptureRef := openVideoCapture
	openVideoCapture = overload
	return func() { openVideoCapture = openVideoCaptureRef }
}
