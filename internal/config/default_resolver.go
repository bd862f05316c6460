package config

import (
	"github.com/tauraamui/reel332/pkg/configdef"
)

// DefaultResolver loads from path when set, otherwise from the env override
// or the per user config location.
func DefaultResolver(path string) defaultResolver {
	return defaultResolver{path: path}
}

type defaultResolver struct {
	path string
}

func (d defaultResolver) Load() (configdef.Values, error) {
	return load(d.path)
}
