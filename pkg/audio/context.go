// Package audio provides playback contexts as cacheable resources:
// expensive to create, keyed by role, and explicitly disposable. Real
// playback is backed by oto; a mock implementation covers tests and
// headless environments.
package audio

import (
	"io"
)

// Context is a playback context. Creating one claims an audio device,
// so contexts are shared through a resource cache rather than created
// per use. Close releases the device; a context implements
// resource.Resource.
type Context interface {
	// NewPlayer creates a player reading PCM data from r.
	NewPlayer(r io.Reader) (Player, error)

	// Close releases the context and every player created from it.
	Close() error

	// IsReady reports whether the context can create players.
	IsReady() bool

	// SampleRate returns the context sample rate in Hz.
	SampleRate() int

	// ChannelCount returns the number of channels.
	ChannelCount() int
}

// Player plays a single PCM stream.
type Player interface {
	// Play starts or resumes playback.
	Play()

	// Pause pauses playback.
	Pause()

	// IsPlaying reports whether audio is currently playing.
	IsPlaying() bool

	// Reset rewinds the player to the beginning.
	Reset() error

	// Close releases the player.
	Close() error

	// SetVolume sets the playback volume (0.0 to 1.0).
	SetVolume(volume float64)

	// Volume returns the current volume.
	Volume() float64

	// Seek seeks to a specific byte position in the PCM stream.
	Seek(offset int64, whence int) (int64, error)
}
