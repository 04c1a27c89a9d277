package audio

import (
	"context"
	"testing"
	"time"
)

func mockConfig() Config {
	cfg := DefaultConfig()
	cfg.ForceMock = true
	return cfg
}

func TestNewContextCache_SharedByKey(t *testing.T) {
	cache, err := NewContextCache(mockConfig())
	if err != nil {
		t.Fatalf("NewContextCache failed: %v", err)
	}
	defer cache.ReleaseAll()

	ctx := context.Background()
	first, err := cache.Acquire(ctx, KeySpeaker, nil)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	second, err := cache.Acquire(ctx, KeySpeaker, nil)
	if err != nil {
		t.Fatalf("second Acquire failed: %v", err)
	}

	if first != second {
		t.Error("same key returned different contexts")
	}

	other, err := cache.Acquire(ctx, KeyNotification, nil)
	if err != nil {
		t.Fatalf("Acquire for second key failed: %v", err)
	}
	if other == first {
		t.Error("different keys share a context")
	}
}

func TestNewContextCache_ReleaseDisposesContext(t *testing.T) {
	cache, err := NewContextCache(mockConfig())
	if err != nil {
		t.Fatalf("NewContextCache failed: %v", err)
	}

	ctx := context.Background()
	res, err := cache.Acquire(ctx, KeySpeaker, nil)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	ac := res.(Context)
	if !ac.IsReady() {
		t.Fatal("acquired context not ready")
	}

	cache.Release(KeySpeaker)
	if ac.IsReady() {
		t.Error("context still ready after Release")
	}
}

func TestNewContextCache_ConfigOverride(t *testing.T) {
	cache, err := NewContextCache(mockConfig())
	if err != nil {
		t.Fatalf("NewContextCache failed: %v", err)
	}
	defer cache.ReleaseAll()

	override := mockConfig()
	override.SampleRate = 44100

	res, err := cache.Acquire(context.Background(), "", override)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer res.Close()

	if got := res.(Context).SampleRate(); got != 44100 {
		t.Errorf("SampleRate = %d, want 44100", got)
	}
}

func TestNewContextCache_MockEnvVar(t *testing.T) {
	t.Setenv("AUDIOPOOL_MOCK_AUDIO", "true")

	cache, err := NewContextCache(DefaultConfig())
	if err != nil {
		t.Fatalf("NewContextCache failed: %v", err)
	}
	defer cache.ReleaseAll()

	// The env var means mock is available right now; acquisition must
	// not wait on the readiness gate.
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	res, err := cache.Acquire(ctx, KeySpeaker, nil)
	if err != nil {
		t.Fatalf("Acquire with mock env var failed: %v", err)
	}
	if _, ok := res.(*MockContext); !ok {
		t.Errorf("expected MockContext with env var set, got %T", res)
	}
}

func TestNewContext_ForceMock(t *testing.T) {
	ctx, err := NewContext(mockConfig(), &PlatformInfo{
		OS:             PlatformLinux,
		AudioSubsystem: SubsystemALSA,
		HasAudioDevice: true,
	})
	if err != nil {
		t.Fatalf("NewContext failed: %v", err)
	}
	defer ctx.Close()

	if _, ok := ctx.(*MockContext); !ok {
		t.Errorf("expected MockContext with ForceMock set, got %T", ctx)
	}
}

func TestNewContext_MockWhenUnusable(t *testing.T) {
	cfg := DefaultConfig()
	ctx, err := NewContext(cfg, &PlatformInfo{
		OS:             PlatformLinux,
		AudioSubsystem: SubsystemNone,
		HasAudioDevice: false,
	})
	if err != nil {
		t.Fatalf("NewContext failed: %v", err)
	}
	defer ctx.Close()

	if _, ok := ctx.(*MockContext); !ok {
		t.Errorf("expected MockContext on unusable platform, got %T", ctx)
	}
}

func TestPlatformInfo_UsableNow(t *testing.T) {
	cases := []struct {
		name string
		info PlatformInfo
		want bool
	}{
		{"ci", PlatformInfo{IsCI: true, AudioSubsystem: SubsystemALSA, HasAudioDevice: true}, false},
		{"no subsystem", PlatformInfo{AudioSubsystem: SubsystemNone, HasAudioDevice: true}, false},
		{"no device", PlatformInfo{AudioSubsystem: SubsystemALSA, HasAudioDevice: false}, false},
		{"usable", PlatformInfo{AudioSubsystem: SubsystemPulseAudio, HasAudioDevice: true}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.info.UsableNow(); got != tc.want {
				t.Errorf("UsableNow = %v, want %v", got, tc.want)
			}
		})
	}
}
