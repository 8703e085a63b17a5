package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"reprise/internal/catalog"
)

func newVideoCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "video",
		Aliases: []string{"videos"},
		Short:   "Manage videos",
	}
	cmd.AddCommand(newVideoAddCommand(ctx))
	cmd.AddCommand(newVideoListCommand(ctx))
	cmd.AddCommand(newVideoRemoveCommand(ctx))
	return cmd
}

func newVideoAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <collection> <file>...",
		Short: "Copy video files into a collection",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				c, err := a.library.FindCollection(commandCtx(cmd), args[0])
				if err != nil {
					return err
				}
				added, addErr := a.library.AddVideos(commandCtx(cmd), c.ID, args[1:])
				if added == nil {
					added = []catalog.Video{}
				}
				if err := ctx.emit(cmd, added, func() error {
					out := cmd.OutOrStdout()
					for _, v := range added {
						size := int64(-1)
						if info, err := os.Stat(v.Path); err == nil {
							size = info.Size()
						}
						fmt.Fprintf(out, "Added #%d %s (%s)\n", v.EpisodeNumber, v.Name, fileSize(size))
					}
					return nil
				}); err != nil {
					return err
				}
				return addErr
			})
		},
	}
}

func newVideoListCommand(ctx *commandContext) *cobra.Command {
	var collectionRef string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List videos with their review state",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				collectionID := ""
				if collectionRef != "" {
					c, err := a.library.FindCollection(commandCtx(cmd), collectionRef)
					if err != nil {
						return err
					}
					collectionID = c.ID
				}
				list, err := a.library.Videos(commandCtx(cmd), collectionID)
				if err != nil {
					return err
				}
				if list == nil {
					list = []catalog.Video{}
				}
				return ctx.emit(cmd, list, func() error {
					out := cmd.OutOrStdout()
					if len(list) == 0 {
						fmt.Fprintln(out, "No videos")
						return nil
					}
					now := ctx.now()
					rows := make([][]string, 0, len(list))
					for _, v := range list {
						firstPlayed := "-"
						if v.FirstPlayedAt != nil {
							firstPlayed = relativeTime(*v.FirstPlayedAt, now)
						}
						rows = append(rows, []string{
							v.ID,
							strconv.Itoa(v.EpisodeNumber),
							v.Name,
							string(v.Status),
							strconv.Itoa(v.ReviewCount),
							firstPlayed,
							dateOrDash(v.NextReview),
						})
					}
					fmt.Fprintln(out, renderTable(
						[]string{"ID", "Ep", "Name", "Status", "Reviews", "First Played", "Next Review"},
						rows,
						[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
					))
					return nil
				})
			})
		},
	}
	cmd.Flags().StringVar(&collectionRef, "collection", "", "Only list videos of this collection (id or name)")
	return cmd
}

func newVideoRemoveCommand(ctx *commandContext) *cobra.Command {
	var confirm bool
	cmd := &cobra.Command{
		Use:     "remove <video-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a video and its media file",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return errors.New("removing a video deletes its media file; pass --yes to confirm")
			}
			return ctx.withApp(func(a *app) error {
				if err := a.library.DeleteVideo(commandCtx(cmd), args[0]); err != nil {
					return err
				}
				return ctx.emit(cmd, map[string]string{"removed": args[0]}, func() error {
					fmt.Fprintf(cmd.OutOrStdout(), "Removed video %s\n", args[0])
					return nil
				})
			})
		},
	}
	cmd.Flags().BoolVarP(&confirm, "yes", "y", false, "Confirm deletion")
	return cmd
}
