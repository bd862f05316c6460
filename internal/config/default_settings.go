package config

import (
	"github.com/tauraamui/reel332/pkg/batch"
	"github.com/tauraamui/reel332/pkg/configdef"
)

type defaultSettingKey uint

const (
	BACKEND    defaultSettingKey = 0x0
	WIDTH      defaultSettingKey = 0x1
	HEIGHT     defaultSettingKey = 0x2
	FPS        defaultSettingKey = 0x3
	EXTENSIONS defaultSettingKey = 0x4
	WORKERS    defaultSettingKey = 0x5
)

var defaultSettings = map[defaultSettingKey]interface{}{
	BACKEND:    "opencv",
	WIDTH:      320,
	HEIGHT:     240,
	FPS:        10,
	EXTENSIONS: batch.DefaultExtensions,
	WORKERS:    1,
}

func Defaults() configdef.Values {
	exts := defaultSettings[EXTENSIONS].([]string)
	return configdef.Values{
		Backend:    defaultSettings[BACKEND].(string),
		Width:      defaultSettings[WIDTH].(int),
		Height:     defaultSettings[HEIGHT].(int),
		FPS:        defaultSettings[FPS].(int),
		Extensions: append([]string{}, exts...),
		Workers:    defaultSettings[WORKERS].(int),
	}
}
