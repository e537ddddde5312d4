// Package config resolves sha1dir settings from defaults and an optional INI
// file. Command-line flags are applied on top by the caller.
package config

import (
	"fmt"
	"os"
	"runtime"

	"github.com/go-ini/ini"
)

// EnvConfig names the config file used when no --config flag is given.
const EnvConfig = "SHA1DIR_CONFIG"

// MaxDefaultJobs caps the default worker count to avoid thrashing the disk
// with concurrent random reads.
const MaxDefaultJobs = 8

const walkSection = "walk"

type Config struct {
	Jobs                   int  `ini:"jobs"`
	IgnoreUnknownFileTypes bool `ini:"ignore_unknown_filetypes"`
}

func Default() *Config {
	return &Config{
		Jobs: DefaultJobs(),
	}
}

func DefaultJobs() int {
	return min(runtime.NumCPU(), MaxDefaultJobs)
}

// Load reads the [walk] section of the INI file at path on top of the
// defaults. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if !f.HasSection(walkSection) {
		return cfg, nil
	}

	if err := f.Section(walkSection).StrictMapTo(cfg); err != nil {
		return nil, fmt.Errorf("parse [%s] in %s: %w", walkSection, path, err)
	}
	if cfg.Jobs < 0 {
		return nil, fmt.Errorf("%s: jobs must be positive, got %d", path, cfg.Jobs)
	}
	if cfg.Jobs == 0 {
		cfg.Jobs = DefaultJobs()
	}

	return cfg, nil
}

// Path returns flagPath, or the value of $SHA1DIR_CONFIG when it is empty.
func Path(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	return os.Getenv(EnvConfig)
}
