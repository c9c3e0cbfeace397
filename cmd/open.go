package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/user/touch-ref-logger/db"
	"github.com/user/touch-ref-logger/eventlog"
	"github.com/user/touch-ref-logger/mpv"
	"github.com/user/touch-ref-logger/pkg/logger"
	"github.com/user/touch-ref-logger/pkg/metrics"
	"github.com/user/touch-ref-logger/tagging"
	"github.com/user/touch-ref-logger/tui"
	"github.com/user/touch-ref-logger/tui/forms"
	"github.com/user/touch-ref-logger/video"
)

// connectTimeout bounds the wait for a freshly launched mpv to open its socket.
const connectTimeout = 10 * time.Second

var openCmd = &cobra.Command{
	Use:   "open [video-file-or-url]",
	Short: "Open a video and start logging events",
	Long: `Open a local video file or a YouTube URL in mpv and start the interactive logger.

Press a referee hotkey (A, S, D by default) to select who is being assessed,
then an event hotkey (1-9) to log the event at the current playback position.
Without a source, or with --no-player, events are logged at the position set
with :seek.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := applyOpenFlags(cmd); err != nil {
			return err
		}

		closer, err := logger.InitFile(logDir())
		if err != nil {
			return err
		}
		defer closer.Close()
		log := logger.Named("open")

		machine, err := cfg.Machine()
		if err != nil {
			return err
		}
		if err := tui.ValidateHotkeys(machine); err != nil {
			return err
		}
		if err := applyRefereeFlags(cmd, machine.Registry()); err != nil {
			return err
		}

		eventLog, err := openLog(cmd)
		if err != nil {
			return err
		}

		if missing := machine.Registry().Missing(); len(missing) > 0 && isatty.IsTerminal(os.Stdin.Fd()) {
			if err := askRefereeNames(machine.Registry()); err != nil {
				return err
			}
		}

		session := tagging.NewSession(machine, eventLog)

		database, err := db.Open(ctx)
		if err != nil {
			return fmt.Errorf("failed to open stats database: %w", err)
		}
		defer database.Close()
		store := db.NewStore(database, session.ID())
		if err := store.Seed(ctx, eventLog.Entries()); err != nil {
			return fmt.Errorf("failed to load existing entries: %w", err)
		}

		source := ""
		if len(args) == 1 {
			source = args[0]
		}
		noPlayer, _ := cmd.Flags().GetBool("no-player")

		var client *mpv.Client
		if source != "" && !noPlayer {
			source, err = resolveSource(source)
			if err != nil {
				return err
			}
			var process *exec.Cmd
			client, process, err = startPlayer(ctx, source)
			if err != nil {
				// logging still works, at the position set with :seek
				log.Warn(ctx, "player unavailable", logger.String("source", source), logger.Error(err))
				fmt.Fprintf(os.Stderr, "Warning: %v\nContinuing without a player.\n", err)
				client = nil
			} else {
				defer func() {
					_ = client.Quit()
					client.Close()
					_ = process.Wait()
				}()
			}
		}

		var resolver video.Resolver
		if video.IsURL(source) {
			resolver = video.NewOEmbedResolver(cfg.LookupTimeout)
		}

		log.Info(ctx, "session started",
			logger.String("session", session.ID()),
			logger.String("source", source),
			logger.String("output", cfg.Output),
			logger.Int("resumed", eventLog.Len()))

		err = tui.Run(ctx, tui.Options{
			Session:  session,
			Config:   cfg,
			Client:   client,
			Resolver: resolver,
			Store:    store,
			Metrics:  metrics.NewManager(),
			Source:   source,
		})
		if err != nil {
			return fmt.Errorf("tui: %w", err)
		}

		log.Info(ctx, "session ended", logger.String("session", session.ID()), logger.Int("entries", session.Log().Len()))
		fmt.Printf("%d event(s) logged. Output: %s\n", session.Log().Len(), cfg.Output)
		return nil
	},
}

// applyOpenFlags copies explicitly set flags over the loaded config.
func applyOpenFlags(cmd *cobra.Command) error {
	flags := cmd.Flags()
	if flags.Changed("catalog") {
		cfg.Catalog, _ = flags.GetString("catalog")
		cfg.Events = nil
	}
	if flags.Changed("require-referee") {
		cfg.RequireReferee, _ = flags.GetBool("require-referee")
	}
	if flags.Changed("output") {
		cfg.Output, _ = flags.GetString("output")
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile, _ = flags.GetString("metrics-file")
	}
	if flags.Changed("description") {
		cfg.DescriptionColumn, _ = flags.GetBool("description")
	}
	if flags.Changed("autosave") {
		cfg.Autosave, _ = flags.GetBool("autosave")
	}
	return cfg.Validate()
}

// applyRefereeFlags sets names from repeated --referee key=Name flags.
func applyRefereeFlags(cmd *cobra.Command, reg *tagging.Registry) error {
	values, _ := cmd.Flags().GetStringArray("referee")
	for _, v := range values {
		key, name, ok := strings.Cut(v, "=")
		key = strings.TrimSpace(key)
		if !ok || len([]rune(key)) != 1 {
			return fmt.Errorf("invalid --referee %q: expected key=Name, e.g. a=Sam", v)
		}
		if err := reg.SetName([]rune(key)[0], strings.TrimSpace(name)); err != nil {
			return fmt.Errorf("invalid --referee %q: %w", v, err)
		}
	}
	return nil
}

// openLog starts an empty log, or continues the output file with --resume.
func openLog(cmd *cobra.Command) (*eventlog.Log, error) {
	resume, _ := cmd.Flags().GetBool("resume")
	if !resume {
		if info, err := os.Stat(cfg.Output); err == nil && info.Size() > 0 && cfg.Autosave {
			fmt.Fprintf(os.Stderr, "Note: %s will be overwritten on the first event (use --resume to continue it)\n", cfg.Output)
		}
		return eventlog.New(), nil
	}

	l, cols, err := eventlog.LoadFile(cfg.Output)
	if err != nil {
		return nil, fmt.Errorf("failed to resume %s: %w", cfg.Output, err)
	}
	if cols.Description || l.HasDescriptions() {
		cfg.DescriptionColumn = true
	}
	fmt.Printf("Resuming %s with %d event(s)\n", cfg.Output, l.Len())
	return l, nil
}

// askRefereeNames runs the referee names form. Aborting the form skips naming.
func askRefereeNames(reg *tagging.Registry) error {
	form, names := forms.NewRefereeNamesForm(reg.Slots())
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		return fmt.Errorf("referee names: %w", err)
	}
	return names.Apply(reg)
}

// resolveSource checks a local path exists; URLs are passed through.
func resolveSource(source string) (string, error) {
	if video.IsURL(source) {
		return source, nil
	}

	absPath, err := filepath.Abs(source)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	info, err := os.Stat(absPath)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("video file not found: %s", absPath)
	}
	if err != nil {
		return "", fmt.Errorf("failed to access video file: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("path is a directory, not a video file: %s", absPath)
	}
	return absPath, nil
}

// startPlayer launches mpv and waits for its IPC socket.
func startPlayer(ctx context.Context, source string) (*mpv.Client, *exec.Cmd, error) {
	fmt.Printf("Opening video: %s\n", displayName(source))
	process, err := mpv.LaunchMpv(ctx, source, cfg.MpvSocket)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to launch mpv: %w", err)
	}

	client := mpv.NewClient(cfg.MpvSocket)
	waitCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.WaitForConnect(waitCtx, 100*time.Millisecond); err != nil {
		if process.Process != nil {
			_ = process.Process.Kill()
		}
		_ = process.Wait()
		return nil, nil, fmt.Errorf("failed to connect to mpv: %w", err)
	}
	return client, process, nil
}

func displayName(source string) string {
	if video.IsURL(source) {
		return source
	}
	return filepath.Base(source)
}

func init() {
	openCmd.Flags().StringArray("referee", nil, "Referee name for a hotkey, e.g. --referee a=Sam (repeatable)")
	openCmd.Flags().String("catalog", "", "Event catalog preset: touch or sports")
	openCmd.Flags().Bool("require-referee", true, "Reject events until a referee is selected")
	openCmd.Flags().StringP("output", "o", "", "CSV file the log is written to")
	openCmd.Flags().Bool("no-player", false, "Log without launching mpv")
	openCmd.Flags().String("metrics-file", "", "Write Prometheus metrics to this file on exit")
	openCmd.Flags().Bool("description", false, "Add a Description column to the CSV")
	openCmd.Flags().Bool("autosave", true, "Rewrite the output file after every event")
	openCmd.Flags().Bool("resume", false, "Continue the existing output file instead of starting empty")

	rootCmd.AddCommand(openCmd)
}
