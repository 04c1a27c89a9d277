package audio

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	if cfg.SampleRate != DefaultSampleRate {
		t.Errorf("SampleRate = %d, want %d", cfg.SampleRate, DefaultSampleRate)
	}
	if cfg.Channels != DefaultChannels {
		t.Errorf("Channels = %d, want %d", cfg.Channels, DefaultChannels)
	}
}

func TestConfig_Validate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid default", func(c *Config) {}, false},
		{"valid 44100 stereo", func(c *Config) { c.SampleRate = 44100; c.Channels = 2 }, false},
		{"valid 48000", func(c *Config) { c.SampleRate = 48000 }, false},
		{"bad sample rate", func(c *Config) { c.SampleRate = 12345 }, true},
		{"zero sample rate", func(c *Config) { c.SampleRate = 0 }, true},
		{"bad channels", func(c *Config) { c.Channels = 3 }, true},
		{"zero channels", func(c *Config) { c.Channels = 0 }, true},
		{"buffer too small", func(c *Config) { c.BufferSize = time.Millisecond }, true},
		{"buffer too large", func(c *Config) { c.BufferSize = 2 * time.Second }, true},
		{"negative volume", func(c *Config) { c.Volume = -0.1 }, true},
		{"volume too high", func(c *Config) { c.Volume = 2.5 }, true},
		{"boost volume", func(c *Config) { c.Volume = 1.5 }, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}
