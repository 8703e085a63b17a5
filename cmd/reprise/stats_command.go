package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"reprise/internal/stats"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show study progress and today's workload",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				s, err := stats.Compute(commandCtx(cmd), a.store, a.engine, a.manager.Today())
				if err != nil {
					return err
				}
				return ctx.emit(cmd, s, func() error {
					printStats(cmd, s)
					return nil
				})
			})
		},
	}
}

func printStats(cmd *cobra.Command, s stats.Stats) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Today (%s): %d new, %d audio, %d video\n", s.Date, s.TodayNew, s.TodayAudio, s.TodayVideo)
	if s.CanAddExtra {
		fmt.Fprintln(out, "New quota used up; `reprise session start new --extra` adds more")
	}
	fmt.Fprintf(out, "Videos: %d total, %d new, %d learning, %d completed (%d%%)\n",
		s.TotalVideos, s.NewVideos, s.LearningVideos, s.CompletedVideos, s.OverallProgress)
	fmt.Fprintf(out, "Active collections: %d\n", s.ActiveCollections)
	if len(s.Collections) == 0 {
		return
	}
	rows := make([][]string, 0, len(s.Collections))
	for _, c := range s.Collections {
		rows = append(rows, []string{
			c.Name,
			yesNo(c.Active),
			strconv.Itoa(c.Total),
			strconv.Itoa(c.Learning),
			strconv.Itoa(c.Completed),
			fmt.Sprintf("%d%%", c.Progress),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Collection", "Active", "Videos", "Learning", "Done", "Progress"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
		"Active total", "", strconv.Itoa(s.TotalVideos), strconv.Itoa(s.LearningVideos), strconv.Itoa(s.CompletedVideos),
		fmt.Sprintf("%d%%", s.OverallProgress),
	))
}
