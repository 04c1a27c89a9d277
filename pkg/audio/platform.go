package audio

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
)

// Platform represents the current operating system platform.
type Platform string

const (
	PlatformLinux   Platform = "linux"
	PlatformDarwin  Platform = "darwin"
	PlatformWindows Platform = "windows"
	PlatformUnknown Platform = "unknown"
)

// Subsystem represents the available audio subsystem.
type Subsystem string

const (
	SubsystemALSA       Subsystem = "alsa"
	SubsystemPulseAudio Subsystem = "pulseaudio"
	SubsystemCoreAudio  Subsystem = "coreaudio"
	SubsystemWASAPI     Subsystem = "wasapi"
	SubsystemNone       Subsystem = "none"
)

// PlatformInfo describes the host's audio capabilities.
type PlatformInfo struct {
	OS             Platform
	AudioSubsystem Subsystem
	HasAudioDevice bool
	IsCI           bool
}

// DetectPlatform detects the current platform and audio capabilities.
func DetectPlatform() *PlatformInfo {
	info := &PlatformInfo{
		OS:   getPlatform(),
		IsCI: IsCI(),
	}

	switch info.OS {
	case PlatformLinux:
		info.AudioSubsystem = detectLinuxAudio()
		info.HasAudioDevice = checkLinuxAudioDevices()
	case PlatformDarwin:
		info.AudioSubsystem = SubsystemCoreAudio
		info.HasAudioDevice = true
	case PlatformWindows:
		info.AudioSubsystem = SubsystemWASAPI
		info.HasAudioDevice = true
	default:
		info.AudioSubsystem = SubsystemNone
		info.HasAudioDevice = false
	}

	log.Debug("Platform detected",
		"os", info.OS,
		"audio", info.AudioSubsystem,
		"has_device", info.HasAudioDevice,
		"is_ci", info.IsCI)

	return info
}

// IsCI detects if we're running in a CI environment.
func IsCI() bool {
	ciVars := []string{
		"CI",
		"CONTINUOUS_INTEGRATION",
		"GITHUB_ACTIONS",
		"GITLAB_CI",
		"JENKINS_URL",
		"TRAVIS",
		"CIRCLECI",
		"BUILDKITE",
		"DRONE",
	}

	for _, envVar := range ciVars {
		if val := os.Getenv(envVar); val != "" && val != "false" {
			log.Debug("CI environment detected", "variable", envVar)
			return true
		}
	}

	return false
}

// MockRequested reports whether mock audio was requested via the
// AUDIOPOOL_MOCK_AUDIO environment variable. A requested mock is
// available immediately, so it bypasses the readiness gate entirely.
func MockRequested() bool {
	if os.Getenv("AUDIOPOOL_MOCK_AUDIO") == "true" {
		log.Debug("Mock audio requested via environment variable")
		return true
	}
	return false
}

// getPlatform returns the current platform.
func getPlatform() Platform {
	switch runtime.GOOS {
	case "linux":
		return PlatformLinux
	case "darwin":
		return PlatformDarwin
	case "windows":
		return PlatformWindows
	default:
		return PlatformUnknown
	}
}

// detectLinuxAudio detects the audio subsystem on Linux.
func detectLinuxAudio() Subsystem {
	// PulseAudio first, more common on desktop Linux.
	if isCommandAvailable("pactl") {
		if output, err := exec.Command("pactl", "info").Output(); err == nil {
			if strings.Contains(string(output), "Server Name") {
				return SubsystemPulseAudio
			}
		}
	}

	if _, err := os.Stat("/proc/asound"); err == nil {
		return SubsystemALSA
	}

	if isCommandAvailable("aplay") {
		return SubsystemALSA
	}

	return SubsystemNone
}

// checkLinuxAudioDevices checks if audio devices are available on Linux.
func checkLinuxAudioDevices() bool {
	if _, err := os.Stat("/dev/snd"); err == nil {
		entries, err := os.ReadDir("/dev/snd")
		if err == nil {
			for _, entry := range entries {
				if strings.HasPrefix(entry.Name(), "pcm") {
					return true
				}
			}
		}
	}

	if content, err := os.ReadFile("/proc/asound/cards"); err == nil {
		if len(content) > 0 && !strings.Contains(string(content), "no soundcards") {
			return true
		}
	}

	if isCommandAvailable("pactl") {
		if output, err := exec.Command("pactl", "list", "short", "sinks").Output(); err == nil {
			if len(output) > 0 {
				return true
			}
		}
	}

	log.Debug("No Linux audio devices found")
	return false
}

// isCommandAvailable checks if a command is available in PATH.
func isCommandAvailable(command string) bool {
	_, err := exec.LookPath(command)
	return err == nil
}

// UsableNow reports whether a real playback context could be created
// immediately, without waiting for anything else to happen. This is
// the fast-path readiness probe for the context cache.
func (p *PlatformInfo) UsableNow() bool {
	if p.IsCI {
		return false
	}
	if p.AudioSubsystem == SubsystemNone {
		return false
	}
	return p.HasAudioDevice
}

// String returns a string representation of the platform info.
func (p *PlatformInfo) String() string {
	return fmt.Sprintf("Platform{OS: %s, Audio: %s, HasDevice: %v, IsCI: %v}",
		p.OS, p.AudioSubsystem, p.HasAudioDevice, p.IsCI)
}
