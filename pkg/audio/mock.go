package audio

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// MockContext implements Context without touching real audio
// hardware. It is used in tests, CI, and headless environments.
type MockContext struct {
	mu      sync.Mutex
	ready   bool
	players []*MockPlayer
	cfg     Config

	// Test helpers
	PlayersCreated int
	PlayersClosed  int
}

// NewMockContext creates a new mock audio context.
func NewMockContext(cfg Config) (*MockContext, error) {
	log.Debug("Creating mock audio context")
	return &MockContext{
		ready: true,
		cfg:   cfg,
	}, nil
}

// NewPlayer creates a new mock audio player. The reader is consumed
// eagerly so tests can inspect the full payload.
func (mc *MockContext) NewPlayer(r io.Reader) (Player, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if !mc.ready {
		return nil, fmt.Errorf("mock audio context not ready")
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio data: %w", err)
	}

	player := &MockPlayer{
		context: mc,
		reader:  bytes.NewReader(data),
		data:    data,
		volume:  1.0,
	}

	mc.players = append(mc.players, player)
	mc.PlayersCreated++

	log.Debug("Created mock audio player",
		"data_size", len(data),
		"players_created", mc.PlayersCreated)

	return player, nil
}

// Close closes the mock context and all its players.
func (mc *MockContext) Close() error {
	mc.mu.Lock()
	players := mc.players
	mc.ready = false
	mc.players = nil
	mc.mu.Unlock()

	for _, player := range players {
		_ = player.Close()
	}
	log.Debug("Mock audio context closed")
	return nil
}

// IsReady reports whether the context can create players.
func (mc *MockContext) IsReady() bool {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return mc.ready
}

// SampleRate returns the configured sample rate.
func (mc *MockContext) SampleRate() int {
	return mc.cfg.SampleRate
}

// ChannelCount returns the configured channel count.
func (mc *MockContext) ChannelCount() int {
	return mc.cfg.Channels
}

// Created returns the number of players created (for testing).
func (mc *MockContext) Created() int {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return mc.PlayersCreated
}

// MockPlayer implements Player for testing.
type MockPlayer struct {
	context *MockContext
	reader  *bytes.Reader
	data    []byte
	mu      sync.Mutex

	playing atomic.Bool
	paused  atomic.Bool
	closed  atomic.Bool
	volume  float64

	// Test helpers
	PlayCount  int
	PauseCount int
}

// Play starts or resumes playback.
func (m *MockPlayer) Play() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.paused.Load() {
		m.paused.Store(false)
		return
	}
	if !m.playing.Load() {
		m.playing.Store(true)
		m.PlayCount++
	}
}

// Pause pauses playback.
func (m *MockPlayer) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.playing.Load() && !m.paused.Load() {
		m.paused.Store(true)
		m.PauseCount++
	}
}

// IsPlaying reports whether audio is currently playing.
func (m *MockPlayer) IsPlaying() bool {
	return m.playing.Load() && !m.paused.Load()
}

// Reset rewinds the player to the beginning.
func (m *MockPlayer) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, err := m.reader.Seek(0, io.SeekStart)
	return err
}

// Close closes the player.
func (m *MockPlayer) Close() error {
	if m.closed.CompareAndSwap(false, true) {
		m.playing.Store(false)
		m.context.mu.Lock()
		m.context.PlayersClosed++
		m.context.mu.Unlock()
	}
	return nil
}

// SetVolume sets the playback volume (0.0 to 1.0).
func (m *MockPlayer) SetVolume(volume float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = volume
}

// Volume returns the current volume.
func (m *MockPlayer) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

// Seek seeks to a specific byte position.
func (m *MockPlayer) Seek(offset int64, whence int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reader.Seek(offset, whence)
}

// DataSize returns the size of the buffered audio data (for testing).
func (m *MockPlayer) DataSize() int {
	return len(m.data)
}
