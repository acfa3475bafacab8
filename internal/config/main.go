package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/alecthomas/kingpin.v2"
)

const Version = "0.3.0"

type Config struct {
	Replays    string
	Savegame   string
	Songs      string
	Workers    int
	ConfigFile string
	Verbose    bool
	Histogram  bool
	Sub93      bool
}

// Parse reads the command line, then fills whatever the flags left unset
// from the config file.
func Parse(args []string) (*Config, error) {
	var c Config
	app := kingpin.New("eotw-stats", "Timing statistics from replay data")
	app.Version(Version)
	app.Arg("replays", "Replay directory").Required().ExistingDirVar(&c.Replays)
	app.Flag("savegame", "Etterna.xml with the scores to analyze").Short('s').StringVar(&c.Savegame)
	app.Flag("songs", "Song directory or song cache database").Short('S').StringVar(&c.Songs)
	app.Flag("workers", "Replays analyzed in parallel").Short('w').IntVar(&c.Workers)
	app.Flag("config", "Config file").Short('c').Default(DefaultConfigPath()).StringVar(&c.ConfigFile)
	app.Flag("verbose", "Log skipped scores").Short('v').BoolVar(&c.Verbose)
	app.Flag("histogram", "Print the offset histogram").BoolVar(&c.Histogram)
	app.Flag("sub93", "Print the offset histogram of sub 93% scores").BoolVar(&c.Sub93)

	if _, err := app.Parse(args); nil != err {
		return nil, err
	}

	file, err := LoadFile(c.ConfigFile)
	if nil != err {
		return nil, err
	}
	if c.Savegame == "" {
		c.Savegame = file.Paths.Savegame
	}
	if c.Songs == "" {
		c.Songs = file.Paths.Songs
	}
	if c.Workers == 0 {
		c.Workers = file.Analysis.Workers
	}

	if c.Savegame == "" {
		return nil, errors.New("no savegame given, use --savegame or [paths] savegame")
	}
	if c.Songs == "" {
		return nil, errors.New("no song root given, use --songs or [paths] songs")
	}
	return &c, nil
}

func xdgConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if nil != err || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

func DefaultConfigPath() string {
	return filepath.Join(xdgConfigHome(), "eotw-stats", "config.toml")
}
