package main

import (
	"io"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
)

// logConfig is read from the environment so debugging can be enabled
// without touching the config file.
type logConfig struct {
	Debug   bool   `env:"DEBUG"`
	LogFile string `env:"AUDIOPOOL_LOGFILE"`
}

// setupLog configures the global logger. Logs are discarded unless a
// log file is set in the environment. The returned closer flushes the
// file on exit.
func setupLog() (func() error, error) {
	cfg, err := env.ParseAs[logConfig]()
	if err != nil {
		return nil, err
	}

	log.SetOutput(io.Discard)

	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		log.SetOutput(f)
		return f.Close, nil
	}
	if cfg.Debug {
		log.SetOutput(os.Stderr)
	}
	return func() error { return nil }, nil
}
