package config

import (
	"github.com/tauraamui/reel332/internal/config"
	"github.com/tauraamui/reel332/pkg/configdef"
)

type Resolver interface {
	Load() (configdef.Values, error)
}

// DefaultResolver reads path, or when empty the REEL332_CONFIG file, or the
// per user config.json. Only an explicitly requested file has to exist.
func DefaultResolver(path string) Resolver {
	return config.DefaultResolver(path)
}

func Defaults() configdef.Values {
	return config.Defaults()
}
