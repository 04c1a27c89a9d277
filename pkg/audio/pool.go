package audio

import (
	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/audiopool/pkg/resource"
)

// Well-known context keys. Callers may use any key; these cover the
// common roles so independent packages end up sharing contexts.
const (
	KeySpeaker      = "speaker"
	KeyNotification = "notification"
)

// NewContextCache wires a resource cache that hands out playback
// contexts. Contexts are keyed by role, created lazily, and shared by
// every caller using the same key.
//
// The platform's audio capability check is used as the fast-path
// probe: when real audio is usable right now, acquisition proceeds
// immediately. Otherwise callers suspend until one of the ready event
// sources fires (or Cache.SignalReady is called). With ForceMock set
// or mock audio requested via the environment, a mock context is
// always produced and the probe always passes.
func NewContextCache(cfg Config, ready ...<-chan struct{}) (*resource.Cache, error) {
	info := DetectPlatform()

	probe := func() bool {
		if cfg.ForceMock || MockRequested() {
			return true
		}
		return info.UsableNow()
	}

	factory := func(params any) (resource.Resource, error) {
		c := cfg
		if override, ok := params.(Config); ok {
			c = override
		}
		return NewContext(c, info)
	}

	return resource.New(resource.Options{
		Factory: factory,
		Probe:   probe,
		Ready:   ready,
	})
}

// NewContext creates a playback context appropriate for the platform:
// a production context when real audio is usable, a mock context in
// CI, headless environments, and forced-mock configurations. A failed
// production context falls back to mock so playback degrades instead
// of breaking the caller.
func NewContext(cfg Config, info *PlatformInfo) (Context, error) {
	if info == nil {
		info = DetectPlatform()
	}

	if cfg.ForceMock || MockRequested() || !info.UsableNow() {
		return NewMockContext(cfg)
	}

	ctx, err := NewProductionContext(cfg)
	if err != nil {
		log.Warn("Failed to create production audio context, falling back to mock",
			"error", err,
			"platform", info.OS)
		return NewMockContext(cfg)
	}
	return ctx, nil
}
