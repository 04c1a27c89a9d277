package audio

// Default audio format. Shared by CGO and non-CGO builds.
const (
	// DefaultSampleRate is the default sample rate in Hz.
	DefaultSampleRate = 22050
	// DefaultChannels is the default channel count (mono).
	DefaultChannels = 1
	// BitDepth is the bit depth per sample.
	BitDepth = 16
	// BytesPerSample is the number of bytes per single-channel sample.
	BytesPerSample = BitDepth / 8
	// DefaultVolume is unity gain.
	DefaultVolume = 1.0
)
