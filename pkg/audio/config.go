package audio

import (
	"fmt"
	"time"
)

// Config holds audio context configuration.
type Config struct {
	SampleRate int           `yaml:"sample_rate" env:"AUDIOPOOL_SAMPLE_RATE" envDefault:"22050"`
	Channels   int           `yaml:"channels" env:"AUDIOPOOL_CHANNELS" envDefault:"1"`
	BufferSize time.Duration `yaml:"buffer_size" env:"AUDIOPOOL_BUFFER_SIZE" envDefault:"50ms"`
	Volume     float64       `yaml:"volume" env:"AUDIOPOOL_VOLUME" envDefault:"1.0"`

	// ForceMock always uses the mock context, regardless of detected
	// platform capabilities.
	ForceMock bool `yaml:"force_mock" env:"AUDIOPOOL_FORCE_MOCK" envDefault:"false"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		SampleRate: DefaultSampleRate,
		Channels:   DefaultChannels,
		BufferSize: 50 * time.Millisecond,
		Volume:     1.0,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	validSampleRates := []int{8000, 16000, 22050, 24000, 44100, 48000}
	sampleRateValid := false
	for _, sr := range validSampleRates {
		if c.SampleRate == sr {
			sampleRateValid = true
			break
		}
	}
	if !sampleRateValid {
		return fmt.Errorf("invalid sample rate %d: must be one of %v", c.SampleRate, validSampleRates)
	}

	if c.Channels != 1 && c.Channels != 2 {
		return fmt.Errorf("invalid channel count %d: must be 1 or 2", c.Channels)
	}

	if c.BufferSize < 10*time.Millisecond || c.BufferSize > time.Second {
		return fmt.Errorf("buffer size must be between 10ms and 1s, got %v", c.BufferSize)
	}

	if c.Volume < 0.0 || c.Volume > 2.0 {
		return fmt.Errorf("volume must be between 0.0 and 2.0, got %f", c.Volume)
	}

	return nil
}
