package config

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/tauraamui/reel332/pkg/configdef"
	"github.com/tauraamui/reel332/pkg/log"
)

func load(path string) (configdef.Values, error) {
	values := Defaults()

	configPath, explicit, err := resolveConfigPath(path)
	if err != nil {
		// without a location there is nothing to read, the defaults stand
		log.Debug("%v, using defaults", err)
		return values, values.RunValidate()
	}

	file, err := readConfigFile(configPath)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			log.Debug("no config file at %s, using defaults", configPath)
			return values, values.RunValidate()
		}
		return configdef.Values{}, errors.Wrapf(err, "unable to read config file %s", configPath)
	}

	log.Debug("Resolved config file location: %s", configPath)
	if err := unmarshal(file, &values); err != nil {
		return configdef.Values{}, err
	}

	if err := values.RunValidate(); err != nil {
		return configdef.Values{}, err
	}

	return values, nil
}

var readConfigFile = func(path string) ([]byte, error) {
	return afero.ReadFile(fs, path)
}

func unmarshal(content []byte, values *configdef.Values) error {
	err := json.Unmarshal(content, values)
	if err != nil {
		return errors.Errorf("parsing configuration error: %v", err)
	}
	return nil
}
