package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/storage"
)

var (
	flagLimit int
	flagStats bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [difficulty]",
	Short: "Show the leaderboard",
	Long: `Display the best entries for a difficulty, or for all difficulties when
none is given. Time attack boards are named <preset>_timeattack.

Examples:
  blockfall scores
  blockfall scores hard
  blockfall scores normal_timeattack --limit 25
  blockfall scores --stats`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", storage.DefaultLimit, "Number of entries to show")
	scoresCmd.Flags().BoolVar(&flagStats, "stats", false, "Show per-difficulty statistics instead")
}

func runScores(_ *cobra.Command, args []string) {
	difficulty := ""
	if len(args) == 1 {
		difficulty = args[0]
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Fatal("cannot open scores database", "err", err)
	}
	defer store.Close()

	if flagStats {
		if err := printStats(store); err != nil {
			logger.Error("cannot load stats", "err", err)
			store.Close()
			os.Exit(1)
		}
		return
	}

	scores, err := store.Fetch(difficulty, flagLimit)
	if err != nil {
		logger.Error("cannot retrieve scores", "err", err)
		store.Close()
		os.Exit(1)
	}

	title := "all difficulties"
	if difficulty != "" {
		title = difficulty
	}
	fmt.Printf("High Scores - %s\n\n", title)

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Run 'blockfall play' to set the first high score!")
		return
	}

	fmt.Printf("  %-4s  %-16s  %8s  %5s  %3s  %6s  %-18s  %s\n", "Rank", "Name", "Score", "Lines", "Lvl", "Time", "Difficulty", "Date")
	fmt.Printf("  %-4s  %-16s  %8s  %5s  %3s  %6s  %-18s  %s\n", "----", "----", "-----", "-----", "---", "----", "----------", "----")
	for i, e := range scores {
		fmt.Printf("  %-4d  %-16s  %8d  %5d  %3d  %6s  %-18s  %s\n",
			i+1, e.Name, e.Score, e.Lines, e.Level,
			fmt.Sprintf("%d:%02d", e.ElapsedSeconds/60, e.ElapsedSeconds%60),
			e.Difficulty, e.CreatedAt.Format("2006-01-02 15:04"))
	}
}

func printStats(store *storage.Store) error {
	stats, err := store.AllStats()
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		fmt.Println("No games recorded yet.")
		return nil
	}

	fmt.Printf("  %-18s  %6s  %8s  %8s  %6s  %5s\n", "Difficulty", "Games", "Best", "Average", "Lines", "Level")
	for _, st := range stats {
		fmt.Printf("  %-18s  %6d  %8d  %8d  %6d  %5d\n",
			st.Difficulty, st.TotalGames, st.HighScore, st.AverageScore, st.TotalLines, st.BestLevel)
	}
	return nil
}
