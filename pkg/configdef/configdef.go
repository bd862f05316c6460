package configdef

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/dealancer/validate.v2"
)

var ErrInvalidConfig = errors.New("invalid config")

var Backends = []string{"opencv", "mock"}

type Values struct {
	Debug              bool     `json:"debug"`
	Backend            string   `json:"backend"`
	Width              int      `json:"width" validate:"gte=1 & lte=65535"`
	Height             int      `json:"height" validate:"gte=1 & lte=65535"`
	FPS                int      `json:"fps" validate:"gte=1 & lte=1000"`
	Extensions         []string `json:"extensions"`
	Workers            int      `json:"workers" validate:"gte=1 & lte=64"`
	FileTimeoutSeconds int      `json:"file_timeout_seconds" validate:"gte=0"`
}

// RunValidate checks field constraints first, then the cross field rules.
func (v Values) RunValidate() error {
	if err := validate.Validate(&v); err != nil {
		return err
	}
	return v.Validate()
}

func (v Values) Validate() error {
	const validationErrorHeader = "validation failed: %w"
	if !knownBackend(v.Backend) {
		return fmt.Errorf(validationErrorHeader, fmt.Errorf(
			"unknown backend %q, must be one of %s: %w", v.Backend, strings.Join(Backends, ", "), ErrInvalidConfig,
		))
	}
	if len(v.Extensions) == 0 {
		return fmt.Errorf(validationErrorHeader, fmt.Errorf("extensions must not be empty: %w", ErrInvalidConfig))
	}
	if blankExtension(v.Extensions) {
		return fmt.Errorf(validationErrorHeader, fmt.Errorf("extensions must not be blank: %w", ErrInvalidConfig))
	}
	if hasDupExtensions(v.Extensions) {
		return fmt.Errorf(validationErrorHeader, fmt.Errorf("extensions must be unique: %w", ErrInvalidConfig))
	}
	return nil
}

func knownBackend(name string) bool {
	for _, b := range Backends {
		if strings.EqualFold(b, name) {
			return true
		}
	}
	return false
}

// normalizeExtension matches how directory scans compare extensions, so
// "MP4", ".mp4" and " .Mp4 " are the same entry.
func normalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if len(ext) > 0 && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

func blankExtension(exts []string) bool {
	for _, ext := range exts {
		if n := normalizeExtension(ext); len(n) < 2 {
			return true
		}
	}
	return false
}

func hasDupExtensions(exts []string) (hasDup bool) {
	hasDup = false
	seen := map[string]bool{}
	for _, ext := range exts {
		ext = normalizeExtension(ext)
		if seen[ext] {
			hasDup = true
			return
		}
		seen[ext] = true
	}
	return
}
