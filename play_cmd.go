package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dgnsrekt/audiopool/internal/blob"
	"github.com/dgnsrekt/audiopool/pkg/audio"
)

var (
	playSilence time.Duration
	playTimeout time.Duration

	playCmd = &cobra.Command{
		Use:   "play [FILE|blob://NAME]",
		Short: "Play raw PCM audio through a pooled context",
		Long: paragraph(fmt.Sprintf(
			"\nPlay raw 16-bit PCM audio from a file, stdin (%s), or a %s reference. The playback context is acquired from the shared pool and reused across plays.",
			keyword("-"), keyword("blob://"),
		)),
		Example: paragraph("audiopool play clip.pcm\naudiopool play blob://chime\naudiopool play --silence 2s --mock"),
		Args:    cobra.MaximumNArgs(1),
		RunE:    runPlay,
	}
)

func init() {
	playCmd.Flags().DurationVar(&playSilence, "silence", 0, "play generated silence for the given duration")
	playCmd.Flags().DurationVar(&playTimeout, "timeout", 30*time.Second, "maximum time to wait for the audio device")
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadAudioConfig(cmd)
	if err != nil {
		return err
	}

	data, err := playbackData(cmd, args, cfg)
	if err != nil {
		return err
	}
	if err := audio.ValidatePCM(data, cfg); err != nil {
		return fmt.Errorf("unsupported audio data: %w", err)
	}

	cache, err := audio.NewContextCache(cfg)
	if err != nil {
		return fmt.Errorf("unable to create context pool: %w", err)
	}
	defer cache.ReleaseAll()

	ctx, cancel := context.WithTimeout(context.Background(), playTimeout)
	defer cancel()

	res, err := cache.Acquire(ctx, audio.KeySpeaker, nil)
	if err != nil {
		return fmt.Errorf("unable to acquire audio context: %w", err)
	}

	ac := res.(audio.Context)
	player, err := ac.NewPlayer(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("unable to create player: %w", err)
	}
	defer player.Close() //nolint:errcheck

	player.SetVolume(cfg.Volume)
	player.Play()

	d := audio.Duration(len(data), cfg)
	log.Debug("Playing audio",
		"bytes", len(data),
		"duration", d,
		"sample_rate", cfg.SampleRate,
		"channels", cfg.Channels)

	waitForPlayback(player, d+cfg.BufferSize)
	return nil
}

// waitForPlayback blocks until the player drains or the deadline
// passes. Mock players never drain on their own, so the deadline is
// what ends silent test runs.
func waitForPlayback(player audio.Player, d time.Duration) {
	deadline := time.Now().Add(d)
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		if !player.IsPlaying() || time.Now().After(deadline) {
			return
		}
	}
}

func playbackData(cmd *cobra.Command, args []string, cfg audio.Config) ([]byte, error) {
	if cmd.Flags().Changed("silence") {
		if len(args) > 0 {
			return nil, fmt.Errorf("cannot combine --silence with a source argument")
		}
		return audio.GenerateSilence(playSilence, cfg), nil
	}

	if len(args) == 0 {
		return nil, fmt.Errorf("missing audio source")
	}
	arg := args[0]

	switch {
	case arg == "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("unable to read from stdin: %w", err)
		}
		return data, nil

	case strings.HasPrefix(arg, blob.URIScheme):
		name, err := blob.ParseURI(arg)
		if err != nil {
			return nil, err
		}
		store, err := openBlobStore()
		if err != nil {
			return nil, err
		}
		defer store.Close() //nolint:errcheck
		return store.Get(name)

	default:
		data, err := os.ReadFile(arg)
		if err != nil {
			return nil, fmt.Errorf("unable to open file: %w", err)
		}
		return data, nil
	}
}
