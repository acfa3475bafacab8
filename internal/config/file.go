package config

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// File is the TOML config file.
type File struct {
	Paths    PathsConfig    `toml:"paths"`
	Analysis AnalysisConfig `toml:"analysis"`
}

type PathsConfig struct {
	Savegame string `toml:"savegame"`
	Songs    string `toml:"songs"`
}

type AnalysisConfig struct {
	Workers int `toml:"workers"`
}

// LoadFile decodes the config file at path. A missing file is not an error.
func LoadFile(path string) (File, error) {
	var f File
	if path == "" {
		return f, nil
	}
	if _, err := os.Stat(path); nil != err {
		if os.IsNotExist(err) {
			return f, nil
		}
		return f, errors.Wrap(err, "unable to stat config")
	}
	if _, err := toml.DecodeFile(path, &f); nil != err {
		return File{}, errors.Wrap(err, "unable to decode config")
	}
	return f, nil
}
