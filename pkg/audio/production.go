//go:build !nocgo
// +build !nocgo

package audio

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/oto/v3"
)

// readyTimeout bounds the wait for the oto context's ready channel.
// CoreAudio on macOS can take several seconds to come up.
const readyTimeout = 10 * time.Second

// ProductionContext implements Context using real oto audio.
type ProductionContext struct {
	context *oto.Context
	cfg     Config
	mu      sync.Mutex
	ready   bool
}

// NewProductionContext creates a playback context backed by the
// platform audio subsystem. It blocks until the underlying context
// reports ready or the ready timeout elapses.
func NewProductionContext(cfg Config) (*ProductionContext, error) {
	pc := &ProductionContext{cfg: cfg}
	if err := pc.initialize(); err != nil {
		return nil, err
	}
	return pc, nil
}

func (pc *ProductionContext) initialize() error {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if pc.ready {
		return nil
	}

	options := &oto.NewContextOptions{
		SampleRate:   pc.cfg.SampleRate,
		ChannelCount: pc.cfg.Channels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   pc.cfg.BufferSize,
	}

	log.Debug("Initializing production audio context",
		"sample_rate", options.SampleRate,
		"channels", options.ChannelCount,
		"buffer_size", options.BufferSize)

	context, readyChan, err := oto.NewContext(options)
	if err != nil {
		return fmt.Errorf("failed to create audio context: %w", err)
	}

	select {
	case <-readyChan:
		pc.context = context
		pc.ready = true
		log.Debug("Production audio context initialized")
	case <-time.After(readyTimeout):
		// oto v3 contexts have no Close; the unready context is left
		// for the garbage collector.
		return fmt.Errorf("audio context initialization timeout after %v", readyTimeout)
	}

	return nil
}

// NewPlayer creates a new audio player.
func (pc *ProductionContext) NewPlayer(r io.Reader) (Player, error) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if !pc.ready || pc.context == nil {
		return nil, fmt.Errorf("audio context not ready")
	}

	return &productionPlayer{
		player: pc.context.NewPlayer(r),
		reader: r,
		volume: pc.cfg.Volume,
	}, nil
}

// Close releases the context.
func (pc *ProductionContext) Close() error {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	// oto v3 contexts have no Close method; dropping the reference is
	// all we can do.
	pc.ready = false
	pc.context = nil
	return nil
}

// IsReady reports whether the context can create players.
func (pc *ProductionContext) IsReady() bool {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return pc.ready
}

// SampleRate returns the context sample rate in Hz.
func (pc *ProductionContext) SampleRate() int {
	return pc.cfg.SampleRate
}

// ChannelCount returns the number of channels.
func (pc *ProductionContext) ChannelCount() int {
	return pc.cfg.Channels
}

// productionPlayer wraps an oto.Player to implement Player.
type productionPlayer struct {
	player *oto.Player
	reader io.Reader
	mu     sync.Mutex
	volume float64
}

func (pp *productionPlayer) Play() {
	pp.player.Play()
}

func (pp *productionPlayer) Pause() {
	pp.player.Pause()
}

func (pp *productionPlayer) IsPlaying() bool {
	return pp.player.IsPlaying()
}

func (pp *productionPlayer) Reset() error {
	if seeker, ok := pp.reader.(io.Seeker); ok {
		_, err := seeker.Seek(0, io.SeekStart)
		return err
	}
	return fmt.Errorf("reader does not support seeking")
}

func (pp *productionPlayer) Close() error {
	return pp.player.Close()
}

func (pp *productionPlayer) SetVolume(volume float64) {
	pp.mu.Lock()
	defer pp.mu.Unlock()
	pp.volume = volume
	pp.player.SetVolume(volume)
}

func (pp *productionPlayer) Volume() float64 {
	pp.mu.Lock()
	defer pp.mu.Unlock()
	if pp.volume == 0 {
		return 1.0
	}
	return pp.volume
}

func (pp *productionPlayer) Seek(offset int64, whence int) (int64, error) {
	if seeker, ok := pp.reader.(io.Seeker); ok {
		return seeker.Seek(offset, whence)
	}
	return 0, fmt.Errorf("reader does not support seeking")
}
