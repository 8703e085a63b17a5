package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"reprise/internal/store"
)

type healthReport struct {
	Database store.DatabaseHealth `json:"database"`
	Repaired int                  `json:"repaired"`
}

func newHealthCommand(ctx *commandContext) *cobra.Command {
	var repair bool
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check the catalog database",
		Long: "Report schema version, SQLite integrity and whether each collection's\n" +
			"stored video counters match its videos. --repair recomputes drifted\n" +
			"counters.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				var report healthReport
				if repair {
					n, err := a.store.RepairCounters(commandCtx(cmd))
					if err != nil {
						return err
					}
					report.Repaired = n
				}
				health, checkErr := a.store.CheckHealth(commandCtx(cmd))
				report.Database = health
				if err := ctx.emit(cmd, report, func() error {
					printHealth(cmd, report, repair)
					return nil
				}); err != nil {
					return err
				}
				if checkErr != nil {
					return checkErr
				}
				if !health.Healthy() {
					return errors.New("catalog database is unhealthy")
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&repair, "repair", false, "Recompute collection counters before checking")
	return cmd
}

func printHealth(cmd *cobra.Command, report healthReport, repaired bool) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	h := report.Database

	lines := renderSectionHeader("Catalog database", colorize)
	lines = append(lines,
		renderStatusLine("Path", statusInfo, h.DBPath, colorize),
		renderStatusLine("Exists", okOrError(h.DatabaseExists), "", colorize),
	)
	schemaKind := statusOK
	schemaMsg := fmt.Sprintf("version %d", h.SchemaVersion)
	if h.SchemaDirty {
		schemaKind = statusError
		schemaMsg += " (dirty)"
	}
	lines = append(lines,
		renderStatusLine("Schema", schemaKind, schemaMsg, colorize),
		renderStatusLine("Integrity", okOrError(h.IntegrityCheck), "", colorize),
		renderStatusLine("Contents", statusInfo,
			fmt.Sprintf("%d collections, %d videos, %d playlists", h.Collections, h.Videos, h.Playlists), colorize),
	)
	if len(h.CounterDrift) == 0 {
		lines = append(lines, renderStatusLine("Counters", statusOK, "", colorize))
	} else {
		for _, d := range h.CounterDrift {
			msg := fmt.Sprintf("%s stores %d/%d, actual %d/%d",
				d.Name, d.StoredCompleted, d.StoredTotal, d.ActualCompleted, d.ActualTotal)
			lines = append(lines, renderStatusLine("Counters", statusWarn, msg, colorize))
		}
		lines = append(lines, statusIndent+"Run `reprise health --repair` to recompute counters")
	}
	if repaired {
		lines = append(lines, renderStatusLine("Repair", statusInfo,
			fmt.Sprintf("%d collection(s) updated", report.Repaired), colorize))
	}
	if h.Error != "" {
		lines = append(lines, renderStatusLine("Error", statusError, h.Error, colorize))
	}
	fmt.Fprintln(out, strings.Join(lines, "\n"))
}
