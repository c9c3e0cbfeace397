package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/user/touch-ref-logger/config"
	"github.com/user/touch-ref-logger/deps"
	"github.com/user/touch-ref-logger/pkg/logger"
)

var Version = "0.1.0"

// cfg is the effective configuration, loaded before any command runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "touch-ref-logger",
	Short: "Log referee assessment events against a match video",
	Long: `touch-ref-logger plays a match video (local file or YouTube URL) in mpv
and logs timestamped referee assessment events from single-key hotkeys.

Features:
  - Select the referee under review with a hotkey, then log events with number keys
  - Every event is stamped with the current playback position (HH:MM:SS)
  - The log is kept as CSV (Timestamp,Event,Referee) and autosaved after every event
  - Live per-referee and per-event totals`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		loaded, err := config.Load(cmd.Context(), path)
		if err != nil {
			return err
		}
		if level, _ := cmd.Flags().GetString("log-level"); level != "" {
			loaded.LogLevel = level
			if err := loaded.Validate(); err != nil {
				return err
			}
		}
		cfg = loaded
		if err := logger.SetLevelString(cfg.LogLevel); err != nil {
			return err
		}
		// the TUI owns the terminal, so open logs to a file instead
		if cmd.Name() != "open" {
			return logger.Init(os.Stderr)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("touch-ref-logger version %s\n", Version)
	},
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check system dependencies",
	Long:  `Check that the external programs used for playback (mpv, yt-dlp) are installed and available.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Checking dependencies...")
		fmt.Println()

		allGood := true
		for _, s := range deps.Report() {
			if s.Found() {
				fmt.Printf("✓ %s: OK (%s)\n", s.Name, s.Path)
				continue
			}
			fmt.Printf("✗ %s: NOT FOUND (needed for %s)\n", s.Name, s.Purpose)
			fmt.Printf("  %v\n", s.Err)
			allGood = false
		}

		fmt.Println()
		if !allGood {
			return fmt.Errorf("some dependencies are missing; events can still be logged with --no-player")
		}
		fmt.Println("All dependencies are installed!")
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration after applying defaults, the YAML file (--config or
TOUCHREF_CONFIG) and TOUCHREF_* environment variables.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := cfg.Marshal()
		if err != nil {
			return fmt.Errorf("failed to render config: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "YAML config file (default $"+config.EnvConfigFile+")")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(configCmd)
}

// logDir is where interactive sessions write their log file.
func logDir() string {
	if cfg.LogDir != "" {
		return cfg.LogDir
	}
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "touch-ref-logger")
	}
	return os.TempDir()
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
