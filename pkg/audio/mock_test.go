package audio

import (
	"bytes"
	"io"
	"testing"
)

func TestMockContext_NewPlayer(t *testing.T) {
	mc, err := NewMockContext(DefaultConfig())
	if err != nil {
		t.Fatalf("NewMockContext failed: %v", err)
	}

	data := []byte{1, 2, 3, 4}
	player, err := mc.NewPlayer(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("NewPlayer failed: %v", err)
	}

	mp := player.(*MockPlayer)
	if mp.DataSize() != len(data) {
		t.Errorf("DataSize = %d, want %d", mp.DataSize(), len(data))
	}
	if mc.Created() != 1 {
		t.Errorf("Created = %d, want 1", mc.Created())
	}
}

func TestMockContext_CloseClosesPlayers(t *testing.T) {
	mc, _ := NewMockContext(DefaultConfig())

	if _, err := mc.NewPlayer(bytes.NewReader([]byte{0, 0})); err != nil {
		t.Fatalf("NewPlayer failed: %v", err)
	}
	if _, err := mc.NewPlayer(bytes.NewReader([]byte{0, 0})); err != nil {
		t.Fatalf("NewPlayer failed: %v", err)
	}

	if err := mc.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if mc.PlayersClosed != 2 {
		t.Errorf("PlayersClosed = %d, want 2", mc.PlayersClosed)
	}
	if mc.IsReady() {
		t.Error("context still ready after Close")
	}
	if _, err := mc.NewPlayer(bytes.NewReader(nil)); err == nil {
		t.Error("NewPlayer succeeded on a closed context")
	}
}

func TestMockPlayer_PlayPauseResume(t *testing.T) {
	mc, _ := NewMockContext(DefaultConfig())
	player, _ := mc.NewPlayer(bytes.NewReader([]byte{0, 0, 0, 0}))

	if player.IsPlaying() {
		t.Error("new player reports playing")
	}

	player.Play()
	if !player.IsPlaying() {
		t.Error("player not playing after Play")
	}

	player.Pause()
	if player.IsPlaying() {
		t.Error("player playing while paused")
	}

	player.Play()
	if !player.IsPlaying() {
		t.Error("player not playing after resume")
	}

	mp := player.(*MockPlayer)
	if mp.PlayCount != 1 {
		t.Errorf("PlayCount = %d, want 1 (resume must not count)", mp.PlayCount)
	}
}

func TestMockPlayer_CloseIdempotent(t *testing.T) {
	mc, _ := NewMockContext(DefaultConfig())
	player, _ := mc.NewPlayer(bytes.NewReader([]byte{0, 0}))

	if err := player.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := player.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}

	if mc.PlayersClosed != 1 {
		t.Errorf("PlayersClosed = %d, want 1", mc.PlayersClosed)
	}
}

func TestMockPlayer_SeekReset(t *testing.T) {
	mc, _ := NewMockContext(DefaultConfig())
	player, _ := mc.NewPlayer(bytes.NewReader([]byte{1, 2, 3, 4}))

	pos, err := player.Seek(2, io.SeekStart)
	if err != nil {
		t.Fatalf("Seek failed: %v", err)
	}
	if pos != 2 {
		t.Errorf("Seek position = %d, want 2", pos)
	}

	if err := player.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	pos, _ = player.Seek(0, io.SeekCurrent)
	if pos != 0 {
		t.Errorf("position after Reset = %d, want 0", pos)
	}
}
