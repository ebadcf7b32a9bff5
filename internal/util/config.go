package util

import (
	"errors"
	"os"

	"github.com/BurntSushi/toml"
)

// Configuration carries the settings threaded from the command line and the
// optional TOML config file into the interpreter services.
type Configuration struct {
	Version   string
	BuildDate string
	Commit    string
	RootPath  string `toml:"root_path"`
	LogLevel  string `toml:"log_level"`
	LogFile   string `toml:"log_file"`
	Color     bool   `toml:"color"`
	DebugAST  bool   `toml:"debug_ast"`
}

// LoadFile merges settings from a TOML file into the configuration. Values
// present in the file win over the existing ones; a missing file is not an
// error so the default config path can be probed unconditionally.
func (c *Configuration) LoadFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	fileConf := *c
	if _, err := toml.DecodeFile(path, &fileConf); err != nil {
		return err
	}
	*c = fileConf
	return nil
}
