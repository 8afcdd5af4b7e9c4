package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deliciousfudge/2d-side-scroller/internal/platform/tui"
	"github.com/deliciousfudge/2d-side-scroller/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the interactive mode picker",
	Long: `Opens a menu to pick a mode. Returning from a game leads back to the
menu. Tab opens the scoreboard.`,
	Annotations: map[string]string{"interactive": "true"},
	Run:         runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "err", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	cfg := runtimeConfig()
	if flagSeed == 0 {
		// Each game picks its own seed
		cfg.Seed = 0
	}

	if err := tui.RunSession(store, cfg, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error running menu: %v\n", err)
		os.Exit(1)
	}
}
