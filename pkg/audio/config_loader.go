package audio

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// LoadConfigFromViper loads audio configuration from Viper.
func LoadConfigFromViper() (Config, error) {
	cfg := DefaultConfig()

	if viper.IsSet("audio.sample_rate") {
		cfg.SampleRate = viper.GetInt("audio.sample_rate")
	}
	if viper.IsSet("audio.channels") {
		cfg.Channels = viper.GetInt("audio.channels")
	}
	if viper.IsSet("audio.buffer_size") {
		if d, err := time.ParseDuration(viper.GetString("audio.buffer_size")); err == nil {
			cfg.BufferSize = d
		}
	}
	if viper.IsSet("audio.volume") {
		cfg.Volume = viper.GetFloat64("audio.volume")
	}
	if viper.IsSet("audio.force_mock") {
		cfg.ForceMock = viper.GetBool("audio.force_mock")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid audio configuration: %w", err)
	}

	return cfg, nil
}

// SetDefaults sets default values in Viper for audio configuration.
func SetDefaults() {
	defaults := DefaultConfig()

	viper.SetDefault("audio.sample_rate", defaults.SampleRate)
	viper.SetDefault("audio.channels", defaults.Channels)
	viper.SetDefault("audio.buffer_size", defaults.BufferSize.String())
	viper.SetDefault("audio.volume", defaults.Volume)
	viper.SetDefault("audio.force_mock", defaults.ForceMock)
}
