package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"reprise/internal/catalog"
	"reprise/internal/library"
)

func newCollectionCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "collection",
		Aliases: []string{"collections", "col"},
		Short:   "Manage video collections",
	}
	cmd.AddCommand(newCollectionAddCommand(ctx))
	cmd.AddCommand(newCollectionListCommand(ctx))
	cmd.AddCommand(newCollectionRenameCommand(ctx))
	cmd.AddCommand(newCollectionToggleCommand(ctx))
	cmd.AddCommand(newCollectionRemoveCommand(ctx))
	return cmd
}

func newCollectionAddCommand(ctx *commandContext) *cobra.Command {
	var description, color string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				c, err := a.library.CreateCollection(commandCtx(cmd), library.CollectionSpec{
					Name:        args[0],
					Description: description,
					Color:       color,
				})
				if err != nil {
					return err
				}
				return ctx.emit(cmd, c, func() error {
					fmt.Fprintf(cmd.OutOrStdout(), "Created collection %s (%s)\n", c.Name, c.ID)
					return nil
				})
			})
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "Collection description")
	cmd.Flags().StringVar(&color, "color", "", "Display color as #rrggbb (default: next palette color)")
	return cmd
}

func newCollectionListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List collections with progress",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				list, err := a.library.Collections(commandCtx(cmd))
				if err != nil {
					return err
				}
				if list == nil {
					list = []catalog.Collection{}
				}
				return ctx.emit(cmd, list, func() error {
					out := cmd.OutOrStdout()
					if len(list) == 0 {
						fmt.Fprintln(out, "No collections yet. Create one with `reprise collection add <name>`.")
						return nil
					}
					rows := make([][]string, 0, len(list))
					for _, c := range list {
						rows = append(rows, []string{
							c.ID,
							c.Name,
							yesNo(c.Active),
							strconv.Itoa(c.TotalVideos),
							strconv.Itoa(c.CompletedVideos),
							fmt.Sprintf("%d%%", c.Progress()),
						})
					}
					fmt.Fprintln(out, renderTable(
						[]string{"ID", "Name", "Active", "Videos", "Done", "Progress"},
						rows,
						[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight},
					))
					return nil
				})
			})
		},
	}
}

func newCollectionRenameCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <collection> <new-name>",
		Short: "Rename a collection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				c, err := a.library.FindCollection(commandCtx(cmd), args[0])
				if err != nil {
					return err
				}
				name := args[1]
				c, err = a.library.UpdateCollection(commandCtx(cmd), c.ID, library.CollectionPatch{Name: &name})
				if err != nil {
					return err
				}
				return ctx.emit(cmd, c, func() error {
					fmt.Fprintf(cmd.OutOrStdout(), "Renamed collection %s to %s\n", c.ID, c.Name)
					return nil
				})
			})
		},
	}
}

func newCollectionToggleCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <collection>",
		Short: "Include or exclude a collection from scheduling",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				c, err := a.library.FindCollection(commandCtx(cmd), args[0])
				if err != nil {
					return err
				}
				c, err = a.library.ToggleCollection(commandCtx(cmd), c.ID)
				if err != nil {
					return err
				}
				return ctx.emit(cmd, c, func() error {
					state := "inactive"
					if c.Active {
						state = "active"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Collection %s is now %s\n", c.Name, state)
					return nil
				})
			})
		},
	}
}

func newCollectionRemoveCommand(ctx *commandContext) *cobra.Command {
	var confirm bool
	cmd := &cobra.Command{
		Use:     "remove <collection>",
		Aliases: []string{"rm"},
		Short:   "Delete a collection, its videos and their media files",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return errors.New("removing a collection deletes its videos and media files; pass --yes to confirm")
			}
			return ctx.withApp(func(a *app) error {
				c, err := a.library.FindCollection(commandCtx(cmd), args[0])
				if err != nil {
					return err
				}
				if err := a.library.DeleteCollection(commandCtx(cmd), c.ID); err != nil {
					return err
				}
				return ctx.emit(cmd, map[string]string{"removed": c.ID}, func() error {
					fmt.Fprintf(cmd.OutOrStdout(), "Removed collection %s (%d videos)\n", c.Name, c.TotalVideos)
					return nil
				})
			})
		},
	}
	cmd.Flags().BoolVarP(&confirm, "yes", "y", false, "Confirm deletion")
	return cmd
}
