package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/deliciousfudge/2d-side-scroller/internal/core"
	"github.com/deliciousfudge/2d-side-scroller/internal/platform/tui"
	"github.com/deliciousfudge/2d-side-scroller/internal/registry"
	"github.com/deliciousfudge/2d-side-scroller/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play the side scroller",
	Long: `Start playing. The mode defaults to "runner"; "attract" plays itself.

Controls:
  Space/Up/W - Jump
  P          - Pause
  R          - Respawn (after game over)
  Ctrl+S     - Screenshot
  B/Esc      - Pause, or leave from the pause and game over screens
  Q/Ctrl+C   - Quit

Difficulty options:
  easy   - Start at lowest difficulty, progresses to max
  normal - Start at 30% difficulty, progresses to max
  hard   - Start at 70% difficulty with full coin reveals
  fixed  - No progression, stays at config's initial level

Examples:
  scroller play
  scroller play attract --seed 7
  scroller play --difficulty hard
  scroller play --config ./my-levels.yaml`,
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{"interactive": "true"},
	Run:         runPlay,
}

func runPlay(_ *cobra.Command, args []string) {
	gameID := "runner"
	if len(args) > 0 {
		gameID = args[0]
	}

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'scroller list' to see available modes.")
		os.Exit(1)
	}

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		// Play without persistence
		logger.Warn("could not open scores database", "err", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	if err := tui.Run(game, store, runtimeConfig(), logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		os.Exit(1)
	}
}

// runtimeConfig builds the runtime settings for the local terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     resolveSeed(flagSeed),
	}
}

// resolveSeed replaces the zero seed with one derived from the clock.
func resolveSeed(seed int64) int64 {
	if seed == 0 {
		return time.Now().UnixNano()
	}
	return seed
}
