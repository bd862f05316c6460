package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/tauraamui/xerror"
)

const (
	vendorName     = "tauraamui"
	appName        = "reel332"
	configFileName = "config.json"
	configPathEnv  = "REEL332_CONFIG"
)

var fs afero.Fs = afero.NewOsFs()

// resolveConfigPath picks the explicit path, then the env override, then the
// per user location. explicit reports whether the file was asked for, a
// missing file that was not asked for just means defaults.
func resolveConfigPath(path string) (resolved string, explicit bool, err error) {
	if len(path) > 0 {
		return path, true, nil
	}

	if configPath := os.Getenv(configPathEnv); len(configPath) > 0 {
		return configPath, true, nil
	}

	configParentDir, err := userConfigDir()
	if err != nil {
		return "", false, xerror.Errorf("unable to resolve %s location: %w", configFileName, err)
	}

	return filepath.Join(
		configParentDir,
		vendorName,
		appName,
		configFileName), false, nil
}

var userConfigDir = func() (string, error) {
	return os.UserConfigDir()
}
