package audio

import (
	"errors"
	"fmt"
	"time"
)

// BytesPerFrame returns the number of bytes per frame (one sample per
// channel) for the configured format.
func (c Config) BytesPerFrame() int {
	return BytesPerSample * c.Channels
}

// ValidatePCM validates that raw PCM data matches the configured
// format.
func ValidatePCM(data []byte, cfg Config) error {
	if len(data) == 0 {
		return errors.New("empty PCM data")
	}

	frame := cfg.BytesPerFrame()
	if len(data)%frame != 0 {
		return fmt.Errorf("PCM data length %d is not aligned to %d-byte frames", len(data), frame)
	}

	return nil
}

// Duration returns the playback duration of raw PCM data.
func Duration(dataLen int, cfg Config) time.Duration {
	frame := cfg.BytesPerFrame()
	if cfg.SampleRate == 0 || frame == 0 {
		return 0
	}

	frames := dataLen / frame
	return time.Duration(float64(frames) / float64(cfg.SampleRate) * float64(time.Second))
}

// GenerateSilence generates silent PCM data for the given duration.
func GenerateSilence(d time.Duration, cfg Config) []byte {
	frames := int(d.Seconds() * float64(cfg.SampleRate))
	return make([]byte, frames*cfg.BytesPerFrame())
}
