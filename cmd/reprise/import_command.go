package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"reprise/internal/catalog"
	"reprise/internal/importer"
	"reprise/internal/library"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var collectionRef string
	var create bool
	cmd := &cobra.Command{
		Use:   "import <dir>",
		Short: "Add every new video found under a directory",
		Long: "Scan a directory recursively and add each video whose file name is not\n" +
			"already part of the collection. Run it again after adding files; known\n" +
			"files are skipped.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if collectionRef == "" {
				return errors.New("--collection is required")
			}
			return ctx.withApp(func(a *app) error {
				if create {
					_, err := a.library.FindCollection(commandCtx(cmd), collectionRef)
					if errors.Is(err, catalog.ErrNotFound) {
						_, err = a.library.CreateCollection(commandCtx(cmd), library.CollectionSpec{Name: collectionRef})
					}
					if err != nil {
						return err
					}
				}
				res, importErr := a.importer.Import(commandCtx(cmd), collectionRef, args[0])
				if err := ctx.emit(cmd, res, func() error {
					printImportResult(cmd, res)
					return nil
				}); err != nil {
					return err
				}
				return importErr
			})
		},
	}
	cmd.Flags().StringVar(&collectionRef, "collection", "", "Target collection (id or name)")
	cmd.Flags().BoolVar(&create, "create", false, "Create the collection if it does not exist")
	return cmd
}

func printImportResult(cmd *cobra.Command, res importer.Result) {
	out := cmd.OutOrStdout()
	for _, v := range res.Added {
		fmt.Fprintf(out, "Added #%d %s\n", v.EpisodeNumber, v.Name)
	}
	fmt.Fprintf(out, "Imported %d video(s) into %s, skipped %d already present\n",
		len(res.Added), res.Collection.Name, len(res.Skipped))
}
