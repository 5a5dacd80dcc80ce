// Package main provides the CLI entrypoint for blockfall.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/blockfall/internal/analog"
	"github.com/verte-zerg/blockfall/internal/board"
	"github.com/verte-zerg/blockfall/internal/clock"
	"github.com/verte-zerg/blockfall/internal/config"
	"github.com/verte-zerg/blockfall/internal/console"
	"github.com/verte-zerg/blockfall/internal/game"
	"github.com/verte-zerg/blockfall/internal/generator"
	"github.com/verte-zerg/blockfall/internal/input"
	"github.com/verte-zerg/blockfall/internal/model"
	"github.com/verte-zerg/blockfall/internal/score"
	"github.com/verte-zerg/blockfall/internal/scoresui"
	"github.com/verte-zerg/blockfall/internal/sound"
	"github.com/verte-zerg/blockfall/internal/stats"
	"github.com/verte-zerg/blockfall/internal/store"
)

const defaultTrendWindow = 5

// stickHold is how long a stick key keeps the emulated joystick deflected.
// It bridges the gap before the terminal's key repeat starts.
const stickHold = 250 * time.Millisecond

var (
	playInterval       int
	playMinInterval    int
	playAccelFloor     int
	playAccelStep      int
	playHoldFresh      int
	playHoldRepeat     int
	playInitialsFilter string
	playMute           bool
	playNoAudio        bool
	playVolume         float64
	playSeed           int64

	scoresPlain bool

	historySince  string
	historyLast   int
	historyWindow int

	resetYes bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	defaults := config.Defaults()
	rootCmd := &cobra.Command{
		Use:           "blockfall",
		Short:         "Falling-block arcade game for the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	rootCmd.Flags().IntVar(&playInterval, "interval", defaults.IntervalMs, "starting drop interval (ms)")
	rootCmd.Flags().IntVar(&playMinInterval, "min-interval", defaults.MinIntervalMs, "shortest drop interval (ms)")
	rootCmd.Flags().IntVar(&playAccelFloor, "accel-floor", defaults.AccelFloorMs, "interval below which acceleration stops (ms)")
	rootCmd.Flags().IntVar(&playAccelStep, "accel-step", defaults.AccelStepMs, "interval cut per cleared row (ms)")
	rootCmd.Flags().IntVar(&playHoldFresh, "hold-fresh", defaults.HoldFreshMs, "joystick delay after a fresh deflection (ms)")
	rootCmd.Flags().IntVar(&playHoldRepeat, "hold-repeat", defaults.HoldRepeatMs, "joystick delay while held (ms)")
	rootCmd.Flags().StringVar(&playInitialsFilter, "initials-filter", defaults.InitialsFilter, "accepted initials: legacy or letters")
	rootCmd.Flags().BoolVar(&playMute, "mute", false, "start with the mute switch on")
	rootCmd.Flags().BoolVar(&playNoAudio, "no-audio", false, "do not open the audio device")
	rootCmd.Flags().Float64Var(&playVolume, "volume", defaults.Vol, "cue volume (0-1)")
	rootCmd.Flags().Int64Var(&playSeed, "seed", 0, "piece sequence seed (0 = random)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newScoresCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newResetScoresCmd())

	return rootCmd
}

func loadPlayConfig(cmd *cobra.Command) (model.Config, error) {
	cfg := config.Defaults()
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}
	if err := fileCfg.Apply(&cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	applyIntFlag(cmd, "interval", &cfg.IntervalMs, playInterval)
	applyIntFlag(cmd, "min-interval", &cfg.MinIntervalMs, playMinInterval)
	applyIntFlag(cmd, "accel-floor", &cfg.AccelFloorMs, playAccelFloor)
	applyIntFlag(cmd, "accel-step", &cfg.AccelStepMs, playAccelStep)
	applyIntFlag(cmd, "hold-fresh", &cfg.HoldFreshMs, playHoldFresh)
	applyIntFlag(cmd, "hold-repeat", &cfg.HoldRepeatMs, playHoldRepeat)
	applyStringFlag(cmd, "initials-filter", &cfg.InitialsFilter, playInitialsFilter)
	applyBoolFlag(cmd, "mute", &cfg.Mute, playMute)
	applyFloatFlag(cmd, "volume", &cfg.Vol, playVolume)
	if playNoAudio {
		cfg.Audio = false
	}
	return cfg, nil
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadPlayConfig(cmd)
	if err != nil {
		return err
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}
	timing := timingFrom(cfg)
	thresholds := thresholdsFrom(cfg)
	filter, err := score.ParseFilter(cfg.InitialsFilter)
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	clk := clock.New()
	go clk.Run(ctx)

	var out sound.Output
	if cfg.Audio {
		spk, err := sound.NewSpeaker(cfg.Vol)
		if err != nil {
			logErrf("audio disabled: %v\n", err)
		} else {
			out = spk
		}
	}
	player := sound.NewPlayer(clk, out)
	defer player.Stop()

	term, err := console.Open(os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		return err
	}
	restored := false
	restore := func() {
		if restored {
			return
		}
		restored = true
		if rerr := term.Restore(); rerr != nil {
			logErrf("failed to restore terminal: %v\n", rerr)
		}
	}
	defer restore()

	buttons := input.NewButtonQueue()
	stick := analog.NewJoystick(stickHold)
	mute := console.NewMuteSwitch(cfg.Mute)
	serial := console.NewSerial()
	router := console.NewRouter(cfg.Keys, buttons, stick, mute, serial, cancel)
	go func() {
		<-ctx.Done()
		serial.Close()
	}()
	routeErr := make(chan error, 1)
	go func() {
		routeErr <- router.Run(os.Stdin)
	}()

	var gen *generator.Generator
	if playSeed != 0 {
		gen = generator.NewSeeded(board.Kinds, playSeed)
	} else {
		gen = generator.New(board.Kinds)
	}
	field := board.New(gen)

	g := game.New(game.Deps{
		Clock:  clk,
		Board:  field,
		Scorer: field,
		Accel: game.LevelAccelerator{
			Base:  timing.Interval,
			Step:  clock.Ticks(cfg.AccelStepMs),
			Rows:  field.ClearedRows,
			Floor: timing.MinInterval,
		},
		Sampler:    analog.NewSampler(stick),
		Buttons:    buttons,
		Serial:     serial,
		Out:        os.Stdout,
		View:       console.NewRenderer(os.Stdout, field, mute, cfg.Keys),
		Cues:       player,
		Mute:       mute,
		Timing:     timing,
		Thresholds: thresholds,
		Stick:      stick,
		Log:        term.Log(),
	})
	highScores := score.NewHighScores(st.EEPROM(ctx), score.DefaultLayout, filter)
	runner := game.NewRunner(g, highScores, st)

	err = runner.Run(ctx)
	restore()
	select {
	case rerr := <-routeErr:
		if rerr != nil {
			logErrf("failed to read keyboard: %v\n", rerr)
		}
	default:
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func timingFrom(cfg model.Config) game.Timing {
	return game.Timing{
		Interval:    clock.Ticks(cfg.IntervalMs),
		MinInterval: clock.Ticks(cfg.MinIntervalMs),
		AccelFloor:  clock.Ticks(cfg.AccelFloorMs),
		HoldFresh:   clock.Ticks(cfg.HoldFreshMs),
		HoldRepeat:  clock.Ticks(cfg.HoldRepeatMs),
	}
}

func thresholdsFrom(cfg model.Config) input.Thresholds {
	return input.Thresholds{
		HoldLow:     analog.Reading(cfg.HoldLow),
		HoldHigh:    analog.Reading(cfg.HoldHigh),
		LeftBelow:   analog.Reading(cfg.LeftBelow),
		RightAbove:  analog.Reading(cfg.RightAbove),
		RotateAbove: analog.Reading(cfg.RotateAbove),
		DropBelow:   analog.Reading(cfg.DropBelow),
	}
}

func validateConfig(cfg model.Config) error {
	for name, v := range map[string]int{
		"interval":     cfg.IntervalMs,
		"min-interval": cfg.MinIntervalMs,
		"accel-floor":  cfg.AccelFloorMs,
		"accel-step":   cfg.AccelStepMs,
		"hold-fresh":   cfg.HoldFreshMs,
		"hold-repeat":  cfg.HoldRepeatMs,
	} {
		if v < 0 {
			return fmt.Errorf("--%s must be >= 0", name)
		}
	}
	for name, v := range map[string]int{
		"hold-low":     cfg.HoldLow,
		"hold-high":    cfg.HoldHigh,
		"left-below":   cfg.LeftBelow,
		"right-above":  cfg.RightAbove,
		"rotate-above": cfg.RotateAbove,
		"drop-below":   cfg.DropBelow,
	} {
		if v < 0 || v > int(analog.MaxReading) {
			return fmt.Errorf("input.%s must be between 0 and %d", name, analog.MaxReading)
		}
	}
	if cfg.Vol < 0 || cfg.Vol > 1 {
		return fmt.Errorf("--volume must be between 0 and 1")
	}
	if err := timingFrom(cfg).Validate(); err != nil {
		return err
	}
	return thresholdsFrom(cfg).Validate()
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newScoresCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Show the high-score table and game history",
		Args:  cobra.NoArgs,
		RunE:  runScoresCmd,
	}
	cmd.Flags().BoolVar(&scoresPlain, "plain", false, "print the table instead of opening the viewer")
	return cmd
}

func runScoresCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if scoresPlain {
		report, err := stats.BuildReport(cmd.Context(), st, model.HistoryConfig{})
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if err := stats.RenderHighScores(w, report.Table); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if err := stats.RenderSummary(w, report.Games); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	load := func(ctx context.Context, cfg model.HistoryConfig) (stats.Report, error) {
		return stats.BuildReport(ctx, st, cfg)
	}
	program := tea.NewProgram(scoresui.NewModel(load, model.HistoryConfig{}), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run scores TUI: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List finished games",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N games")
	cmd.Flags().IntVar(&historyWindow, "window", defaultTrendWindow, "moving average window for the score trend")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if historySince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", historySince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	games, err := st.ListGames(cmd.Context(), model.HistoryConfig{Since: sinceTime, Last: historyLast})
	if err != nil {
		return fmt.Errorf("failed to list games: %w", err)
	}
	w := cmd.OutOrStdout()
	if err := stats.RenderSummary(w, games); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderHistory(w, games, historyWindow); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newResetScoresCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset-scores",
		Short: "Erase the stored high-score table",
		Args:  cobra.NoArgs,
		RunE:  runResetScoresCmd,
	}
	cmd.Flags().BoolVar(&resetYes, "yes", false, "do not ask for confirmation")
	return cmd
}

func runResetScoresCmd(cmd *cobra.Command, _ []string) error {
	if !resetYes {
		ok, err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Erase all high scores? [y/N] ")
		if err != nil {
			return err
		}
		if !ok {
			logErrln("aborted")
			return nil
		}
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	if err := st.EEPROM(cmd.Context()).Erase(); err != nil {
		return err
	}
	logErrln("High scores erased")
	return nil
}

func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	if _, err := fmt.Fprint(out, prompt); err != nil {
		return false, fmt.Errorf("failed to write prompt: %w", err)
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func applyIntFlag(cmd *cobra.Command, name string, target *int, value int) {
	if !cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func applyStringFlag(cmd *cobra.Command, name string, target *string, value string) {
	if !cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func applyFloatFlag(cmd *cobra.Command, name string, target *float64, value float64) {
	if !cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func applyBoolFlag(cmd *cobra.Command, name string, target *bool, value bool) {
	if !cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func defaultConfigTemplate() string {
	d := config.Defaults()
	return fmt.Sprintf(`# blockfall configuration
# Uncomment a value to enable it. CLI flags override config values.

[game]
# interval = %d           # Starting drop interval (ms)
# min-interval = %d        # Shortest drop interval (ms)
# accel-floor = %d        # Acceleration stops below this interval (ms)
# accel-step = %d          # Interval cut per cleared row (ms)
# hold-fresh = %d         # Joystick delay after a fresh deflection (ms)
# hold-repeat = %d        # Joystick delay while held (ms)
# initials-filter = %q # "legacy" (bytes A..z) or "letters"

[input]
# Joystick trip points on the 0..1023 scale. Comparisons are strict.
# hold-low = %d
# hold-high = %d
# left-below = %d
# right-above = %d
# rotate-above = %d
# drop-below = %d

[keys]
# buttons = [%q, %q, %q, %q] # right, drop, rotate, left
# stick-left = %q
# stick-right = %q
# stick-up = %q
# stick-down = %q
# mute = %q

[audio]
# enabled = true
# volume = %.2f
# mute = false
`,
		d.IntervalMs, d.MinIntervalMs, d.AccelFloorMs, d.AccelStepMs, d.HoldFreshMs, d.HoldRepeatMs, d.InitialsFilter,
		d.HoldLow, d.HoldHigh, d.LeftBelow, d.RightAbove, d.RotateAbove, d.DropBelow,
		string(d.Keys.Buttons[0]), string(d.Keys.Buttons[1]), string(d.Keys.Buttons[2]), string(d.Keys.Buttons[3]),
		string(d.Keys.StickLeft), string(d.Keys.StickRight), string(d.Keys.StickUp), string(d.Keys.StickDown),
		string(d.Keys.Mute),
		d.Vol,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
