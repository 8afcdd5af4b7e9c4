// scroller is an endless side scroller for the terminal built on a pooled
// segment stream.
//
// Usage:
//
//	scroller list              - List available game modes
//	scroller play [mode]       - Play a mode (default: runner)
//	scroller menu              - Start menu to pick modes interactively
//	scroller simulate          - Run the attract mode headless and report stream stats
//	scroller serve             - Start SSH server for remote play
//	scroller scores [mode]     - Show high scores and recorded runs
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible levels
//	--db <path>           - Set database path (default: ~/.scroller/scores.db)
//	--config <path>       - Custom scroller YAML config
//	--difficulty <preset> - easy, normal, hard or fixed
//	--log-level <level>   - debug, info, warn or error
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/deliciousfudge/2d-side-scroller/internal/config"
	"github.com/deliciousfudge/2d-side-scroller/internal/games/runner"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
	flagLogFile    string
	flagEnvFile    string
)

// logger is configured in setup before any command runs.
var logger = log.New(io.Discard)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "scroller",
	Short: "Side Scroller - an endless runner in your terminal",
	Long: `Side Scroller streams pre-built level segments past a runner who has to
jump the gaps, dodge the spikes and collect coins.

Available commands:
  list      - Show all game modes
  play      - Play directly
  menu      - Interactive mode picker
  simulate  - Run the attract mode headless
  serve     - Start SSH server for remote play
  scores    - View high scores and recorded runs

Examples:
  scroller play
  scroller play --difficulty hard --seed 42
  scroller simulate --ticks 10000 --save
  scroller serve --ssh :2222 --metrics-addr :9090`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.scroller/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom scroller config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to a file (interactive commands log nowhere otherwise)")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env", ".env", "Environment file with SCROLLER_* overrides")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
}

// setup loads the environment file, applies SCROLLER_* overrides to flags
// the user did not set and configures logging and the game package.
func setup(cmd *cobra.Command, _ []string) error {
	if err := config.LoadEnv(flagEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load env file %s: %w", flagEnvFile, err)
	}

	flags := cmd.Flags()
	if !flags.Changed("seed") {
		flagSeed = config.GetEnvInt64(config.EnvSeed, flagSeed)
	}
	if !flags.Changed("db") {
		flagDBPath = config.GetEnv(config.EnvDBPath, flagDBPath)
	}
	if !flags.Changed("log-level") {
		flagLogLevel = config.GetEnv(config.EnvLogLevel, flagLogLevel)
	}

	if flagDifficulty != "" && config.ParsePreset(flagDifficulty) == "" {
		return fmt.Errorf("unknown difficulty %q", flagDifficulty)
	}

	l, err := newLogger(cmd)
	if err != nil {
		return err
	}
	logger = l

	runner.SetConfigPath(flagConfig)
	runner.SetDifficultyPreset(flagDifficulty)
	runner.SetLogger(logger)
	return nil
}

// newLogger builds the command logger. Interactive commands own the
// terminal, so they only log when --log-file is given.
func newLogger(cmd *cobra.Command) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", flagLogLevel, err)
	}

	var w io.Writer = os.Stderr
	switch {
	case flagLogFile != "":
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
	case cmd.Annotations["interactive"] == "true":
		w = io.Discard
	}

	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "scroller",
		Level:           level,
	}), nil
}
