package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"reprise/internal/catalog"
	"reprise/internal/playlist"
)

func newSessionCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "session",
		Aliases: []string{"playlist"},
		Short:   "Create and work through study playlists",
	}
	cmd.AddCommand(newSessionStartCommand(ctx))
	cmd.AddCommand(newSessionResumeCommand(ctx))
	cmd.AddCommand(newSessionShowCommand(ctx))
	cmd.AddCommand(newSessionAdvanceCommand(ctx))
	cmd.AddCommand(newSessionCompleteCommand(ctx))
	cmd.AddCommand(newSessionHistoryCommand(ctx))
	return cmd
}

func newSessionStartCommand(ctx *commandContext) *cobra.Command {
	var extra, fresh bool
	cmd := &cobra.Command{
		Use:   "start <new|audio|video>",
		Short: "Start today's playlist of a kind, resuming an unfinished one first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := catalog.ParseKind(args[0])
			if err != nil {
				return err
			}
			return ctx.withApp(func(a *app) error {
				if !fresh {
					resumed, err := a.manager.ResumeIncomplete(commandCtx(cmd), kind)
					if err != nil {
						return err
					}
					if resumed != nil {
						return ctx.renderPlaylist(cmd, a, *resumed, "Resuming")
					}
				}
				p, err := a.manager.Create(commandCtx(cmd), kind, extra)
				if err != nil {
					return err
				}
				return ctx.renderPlaylist(cmd, a, p, "Created")
			})
		},
	}
	cmd.Flags().BoolVar(&extra, "extra", false, "Extra session with a raised new-video cap")
	cmd.Flags().BoolVar(&fresh, "fresh", false, "Always create a new playlist")
	return cmd
}

func newSessionResumeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "resume <new|audio|video>",
		Short: "Show the most recent unfinished playlist of a kind",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := catalog.ParseKind(args[0])
			if err != nil {
				return err
			}
			return ctx.withApp(func(a *app) error {
				p, err := a.manager.ResumeIncomplete(commandCtx(cmd), kind)
				if err != nil {
					return err
				}
				if p == nil {
					return ctx.emit(cmd, map[string]any{"playlist": nil}, func() error {
						fmt.Fprintf(cmd.OutOrStdout(), "No unfinished %s playlist\n", kind)
						return nil
					})
				}
				return ctx.renderPlaylist(cmd, a, *p, "Resuming")
			})
		},
	}
}

func newSessionShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <playlist-id>",
		Short: "Show one playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				p, err := a.manager.Get(commandCtx(cmd), args[0])
				if err != nil {
					return err
				}
				return ctx.renderPlaylist(cmd, a, p, "Playlist")
			})
		},
	}
}

func newSessionAdvanceCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "advance <playlist-id> <index>",
		Short: "Move the playback cursor (0 rewinds, item count means all played)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("index must be an integer: %w", err)
			}
			return ctx.withApp(func(a *app) error {
				p, err := a.manager.Advance(commandCtx(cmd), args[0], index)
				if err != nil {
					return err
				}
				return ctx.emit(cmd, p, func() error {
					fmt.Fprintf(cmd.OutOrStdout(), "Playlist %s at %d/%d (%s)\n",
						p.ID, p.LastPlayedIndex, len(p.Items), p.State())
					return nil
				})
			})
		},
	}
}

func newSessionCompleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <playlist-id>",
		Short: "Finish a playlist and record one exposure per video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				res, err := a.manager.Complete(commandCtx(cmd), args[0])
				if err != nil {
					return err
				}
				return ctx.emit(cmd, res, func() error {
					printCompletion(cmd, res)
					return nil
				})
			})
		},
	}
}

func printCompletion(cmd *cobra.Command, res playlist.CompletionResult) {
	out := cmd.OutOrStdout()
	if res.AlreadyCompleted {
		fmt.Fprintf(out, "Playlist %s was already completed\n", res.Playlist.ID)
		return
	}
	fmt.Fprintf(out, "Completed playlist %s: %d exposure(s) recorded, %d mastered\n",
		res.Playlist.ID, len(res.Exposures), res.Mastered())
	for _, e := range res.Exposures {
		next := "mastered"
		if !e.Mastered {
			next = "next review " + dateOrDash(e.NextReview)
		}
		fmt.Fprintf(out, "  %s: review %d, %s\n", e.VideoID, e.ReviewCount, next)
	}
	for _, s := range res.Skipped {
		fmt.Fprintf(out, "  %s: skipped (%s)\n", s.VideoID, s.Reason)
	}
}

func newSessionHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past playlists, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				list, err := a.manager.History(commandCtx(cmd), limit)
				if err != nil {
					return err
				}
				if list == nil {
					list = []catalog.Playlist{}
				}
				return ctx.emit(cmd, list, func() error {
					out := cmd.OutOrStdout()
					if len(list) == 0 {
						fmt.Fprintln(out, "No playlists yet")
						return nil
					}
					now := ctx.now()
					rows := make([][]string, 0, len(list))
					for _, p := range list {
						rows = append(rows, []string{
							p.ID,
							p.Date.String(),
							string(p.Kind),
							strconv.Itoa(len(p.Items)),
							fmt.Sprintf("%d/%d", p.LastPlayedIndex, len(p.Items)),
							string(p.State()),
							yesNo(p.IsExtraSession),
							relativeTime(p.CreatedAt, now),
						})
					}
					fmt.Fprintln(out, renderTable(
						[]string{"ID", "Date", "Kind", "Items", "Cursor", "State", "Extra", "Created"},
						rows,
						[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft, alignLeft},
					))
					return nil
				})
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum playlists to list (0 for all)")
	return cmd
}

// renderPlaylist prints p with video names resolved from the catalog. Items
// whose video was deleted show their id only.
func (c *commandContext) renderPlaylist(cmd *cobra.Command, a *app, p catalog.Playlist, verb string) error {
	return c.emit(cmd, p, func() error {
		snap, err := a.store.Snapshot(commandCtx(cmd))
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s playlist %s for %s (%s)\n", verb, p.Kind, p.ID, p.Date, p.State())

		rows := make([][]string, 0, len(p.Items))
		for i, item := range p.Items {
			marker := ""
			if i == p.LastPlayedIndex && !p.Completed {
				marker = ">"
			}
			name, collection := item.VideoID, "-"
			if v, ok := snap.Video(item.VideoID); ok {
				name = v.Name
				if col, ok := snap.Collection(v.CollectionID); ok {
					collection = col.Name
				}
			}
			detail := ""
			if item.Review != nil {
				detail = fmt.Sprintf("day %d", item.Review.DaysSinceFirstPlay)
				if item.Review.RecommendedForVideo {
					detail += ", watch"
				}
			}
			rows = append(rows, []string{
				marker,
				strconv.Itoa(i + 1),
				name,
				collection,
				strconv.Itoa(item.ReviewNumber),
				detail,
			})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"", "#", "Video", "Collection", "Review", "Detail"},
			rows,
			[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignRight, alignLeft},
		))
		return nil
	})
}
