// Package main provides the entry point for the audiopool CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dgnsrekt/audiopool/pkg/audio"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	mockAudio  bool
	volume     float64
	sampleRate int
	channels   int

	rootCmd = &cobra.Command{
		Use:   "audiopool",
		Short: "Shared audio playback contexts, pooled and cached",
		Long: paragraph(
			fmt.Sprintf("\nPlay, encode, and stash audio with %s contexts.", keyword("pooled")),
		),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
	}
)

// loadAudioConfig resolves the effective audio configuration from the
// config file and command line flags. Flags win.
func loadAudioConfig(cmd *cobra.Command) (audio.Config, error) {
	cfg, err := audio.LoadConfigFromViper()
	if err != nil {
		return audio.Config{}, err
	}

	if cmd.Flags().Changed("mock") || mockAudio {
		cfg.ForceMock = mockAudio
	}
	if cmd.Flags().Changed("volume") {
		cfg.Volume = volume
	}
	if cmd.Flags().Changed("sample-rate") {
		cfg.SampleRate = sampleRate
	}
	if cmd.Flags().Changed("channels") {
		cfg.Channels = channels
	}

	if err := cfg.Validate(); err != nil {
		return audio.Config{}, fmt.Errorf("invalid audio configuration: %w", err)
	}
	return cfg, nil
}

func validateOptions(_ *cobra.Command) error {
	// grab config values from Viper
	mockAudio = viper.GetBool("audio.force_mock") || mockAudio

	detectTermWidth()
	return nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.PersistentFlags().BoolVar(&mockAudio, "mock", false, "use a mock audio backend (no hardware output)")
	rootCmd.PersistentFlags().Float64Var(&volume, "volume", audio.DefaultVolume, "playback volume (0.0 to 2.0)")
	rootCmd.PersistentFlags().IntVar(&sampleRate, "sample-rate", audio.DefaultSampleRate, "sample rate in Hz")
	rootCmd.PersistentFlags().IntVar(&channels, "channels", audio.DefaultChannels, "channel count (1 or 2)")

	// Config bindings
	_ = viper.BindPFlag("audio.force_mock", rootCmd.PersistentFlags().Lookup("mock"))
	_ = viper.BindPFlag("audio.volume", rootCmd.PersistentFlags().Lookup("volume"))
	_ = viper.BindPFlag("audio.sample_rate", rootCmd.PersistentFlags().Lookup("sample-rate"))
	_ = viper.BindPFlag("audio.channels", rootCmd.PersistentFlags().Lookup("channels"))

	audio.SetDefaults()

	rootCmd.AddCommand(playCmd, encodeCmd, decodeCmd, blobCmd, configCmd, manCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "audiopool")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "audiopool")}, dirs...)
	}

	if c := os.Getenv("AUDIOPOOL_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("audiopool")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("audiopool")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	viper.OnConfigChange(func(e fsnotify.Event) {
		log.Debug("Configuration file changed", "path", e.Name, "op", e.Op.String())
	})
	viper.WatchConfig()

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "audiopool.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
