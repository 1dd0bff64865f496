package cmd

import (
	"context"
	"fmt"

	"racebell/internal/race"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List today's races and exit",
	Long:  `Fetch the current race card once and print it in a simple text format.`,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	if cfg == nil {
		initConfig()
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.FetchTimeout)
	defer cancel()

	res := newSource().Fetch(ctx)

	fmt.Printf("Races for %s (source: %s):\n", res.FetchedAt.In(cfg.Location()).Format("2006-01-02"), res.Source)
	if len(res.Races) == 0 {
		fmt.Println("No races found.")
		return nil
	}

	loc := cfg.Location()
	for _, r := range res.Races {
		badge := ""
		if r.Grade != race.GradeGeneral {
			badge = fmt.Sprintf(" [%s]", r.Grade)
		}
		fmt.Printf("  %s  %s %2dR  %s%s\n", r.StartTime.In(loc).Format(cfg.TimeFormat), r.Location, r.Number, r.Name, badge)
	}

	return nil
}
