package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deliciousfudge/2d-side-scroller/internal/platform/tui"
	"github.com/deliciousfudge/2d-side-scroller/internal/registry"
	"github.com/deliciousfudge/2d-side-scroller/internal/storage"
)

var (
	flagShowRuns bool
	flagClear    bool
	flagBoard    bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [mode]",
	Short: "Show high scores and recorded runs",
	Long: `Display the top 10 coin counts for a mode (default: runner).

Examples:
  scroller scores
  scroller scores attract --runs
  scroller scores runner --clear
  scroller scores --tui`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagShowRuns, "runs", false, "Also list recently recorded runs")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all scores for the mode")
	scoresCmd.Flags().BoolVar(&flagBoard, "tui", false, "Browse scores and runs in the interactive scoreboard")
}

func runScores(_ *cobra.Command, args []string) {
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
	title := game.Title()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagBoard {
		cfg := runtimeConfig()
		if _, err := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH); err != nil {
			fmt.Fprintf(os.Stderr, "Error running scoreboard: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if flagClear {
		if err := store.ClearScores(gameID); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing scores: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Cleared scores for %s\n", title)
		return
	}

	scores, err := store.TopScores(gameID, 10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("High Scores - %s\n", title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'scroller play %s' to set the first high score!\n", gameID)
	} else {
		fmt.Printf("  %-4s  %-10s  %s\n", "Rank", "Coins", "Date")
		fmt.Printf("  %-4s  %-10s  %s\n", "----", "-----", "----")
		for i, entry := range scores {
			fmt.Printf("  %-4d  %-10d  %s\n", i+1, entry.Score, entry.CreatedAt.Format("2006-01-02 15:04"))
		}

		if stats, err := store.GetGameStats(gameID); err == nil {
			fmt.Println()
			fmt.Printf("Best: %d  Average: %.1f  Games: %d\n", stats.HighScore, stats.AvgScore, stats.GamesCount)
		}
	}

	if flagShowRuns {
		printRuns(store, gameID)
	}
}

func printRuns(store *storage.Store, gameID string) {
	runs, err := store.RecentRuns(gameID, 10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("Recent runs")
	fmt.Println()
	if len(runs) == 0 {
		fmt.Println("No runs recorded. Use 'scroller simulate --save' to record one.")
		return
	}

	fmt.Printf("  %-5s  %-20s  %-8s  %-6s  %-6s  %-8s  %-8s  %s\n",
		"ID", "Seed", "Ticks", "Coins", "Deaths", "Spawned", "Recycled", "Exhausted")
	for _, r := range runs {
		fmt.Printf("  %-5d  %-20d  %-8d  %-6d  %-6d  %-8d  %-8d  %d\n",
			r.ID, r.Seed, r.Ticks, r.Coins, r.Deaths, r.Spawned, r.Recycled, r.Exhausted)
	}
}
