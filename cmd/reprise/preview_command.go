package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reprise/internal/catalog"
	"reprise/internal/schedule"
)

func newPreviewCommand(ctx *commandContext) *cobra.Command {
	var extra bool
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show what today's playlists would contain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				preview, err := a.manager.Preview(commandCtx(cmd), extra)
				if err != nil {
					return err
				}
				return ctx.emit(cmd, preview, func() error {
					snap, err := a.store.Snapshot(commandCtx(cmd))
					if err != nil {
						return err
					}
					printPreview(cmd, snap, preview)
					return nil
				})
			})
		},
	}
	cmd.Flags().BoolVar(&extra, "extra", false, "Use the extra-session new-video cap")
	return cmd
}

func printPreview(cmd *cobra.Command, snap *catalog.Snapshot, p schedule.Preview) {
	out := cmd.OutOrStdout()
	session := "regular"
	if p.IsExtraSession {
		session = "extra"
	}
	fmt.Fprintf(out, "Schedule for %s (%s session): %d item(s)\n", p.Date, session, p.TotalCount)
	for _, kind := range catalog.Kinds {
		items := p.Items(kind)
		fmt.Fprintf(out, "\n%s (%d)\n", kindTitle(kind), len(items))
		for _, item := range items {
			name := item.VideoID
			if v, ok := snap.Video(item.VideoID); ok {
				name = fmt.Sprintf("#%d %s", v.EpisodeNumber, v.Name)
			}
			if item.Review != nil {
				fmt.Fprintf(out, "  %s  (review %d, day %d)\n", name, item.ReviewNumber, item.Review.DaysSinceFirstPlay)
			} else {
				fmt.Fprintf(out, "  %s\n", name)
			}
		}
	}
}

func kindTitle(kind catalog.Kind) string {
	switch kind {
	case catalog.KindNew:
		return "New videos"
	case catalog.KindAudio:
		return "Audio reviews"
	case catalog.KindVideo:
		return "Video reviews"
	default:
		return string(kind)
	}
}
