package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/historian/pkg/history"
)

// Config holds defaults read from the config file. Every field mirrors a
// flag; a flag given on the command line wins over the file.
//
//	engine = "lanes"
//	reduce = true
//	width = 2
//	color = "always"
//
//	[[static]]
//	pattern = "^tag: v[0-9]+"
//	column = 0
type Config struct {
	Engine      *string `toml:"engine"`
	Reduce      *bool   `toml:"reduce"`
	All         *bool   `toml:"all"`
	Limit       *int    `toml:"limit"`
	Width       *int    `toml:"width"`
	Orientation *string `toml:"orientation"`
	Markers     *string `toml:"markers"`
	Color       *string `toml:"color"`
	Decorate    *bool   `toml:"decorate"`
	Oneline     *bool   `toml:"oneline"`
	Debug       *string `toml:"debug"`

	// Static replaces the built-in static column rules.
	Static []history.StaticRule `toml:"static"`
}

// loadConfig reads the config file at path. With explicit false a missing
// default file is not an error and yields an empty config.
func loadConfig(path string, explicit bool) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return cfg, fmt.Errorf("parse config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}
