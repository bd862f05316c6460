package batch

import (
	"fmt"
	"time"
)

type Failure struct {
	Index int
	Input string
	Err   error
}

// Summary is the aggregate outcome of a batch run.
type Summary struct {
	Files      int
	Converted  int
	Failures   []Failure
	TotalBytes int64
	Elapsed    time.Duration
}

func (s Summary) Failed() int { return len(s.Failures) }

func (s Summary) String() string {
	return fmt.Sprintf(
		"Done! %d files, %d converted, %d failed, %.0f MB total, %.0fs",
		s.Files, s.Converted, s.Failed(), float64(s.TotalBytes)/1024/1024, s.Elapsed.Seconds(),
	)
}
