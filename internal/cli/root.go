package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mgpai22/reelcap/internal/config"
	"github.com/mgpai22/reelcap/internal/logging"
)

var (
	verbose    bool
	configPath string
	logger     *logging.Logger
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "reelcap",
	Short: "Burn speech captions into short videos",
	Long: `Reelcap transcribes the speech in a video, times the captions so they
never overlap, writes them as an ASS document and burns them into the video.

Captions can be shown per phrase or per word, along the bottom of the frame
or centred for vertical "reels" style clips.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load .env: %w", err)
		}

		loaded, _, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded

		logger = logging.New(logging.Options{
			Verbose: verbose || cfg.Logging.Verbose,
			JSON:    cfg.Logging.Format == "json",
		})
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute runs the root command; an interrupt cancels in-flight runs.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVar(&configPath, "config", "", "Config file path (default reelcap.toml or ~/.config/reelcap/config.toml)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output directory or file path")
}
