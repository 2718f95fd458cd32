package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"callscribe/internal/api"
	"callscribe/internal/history"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent batch runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg)
			if err != nil {
				return fmt.Errorf("open run history: %w", err)
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, api.FromRuns(runs))
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					shortID(run.ID),
					run.Stage,
					string(run.Status),
					run.StartedAt.Local().Format("2006-01-02 15:04:05"),
					formatDuration(run.Duration()),
					strconv.Itoa(run.Counts.Rows),
					fmt.Sprintf("%d/%d/%d", run.Counts.Summarized, run.Counts.SummaryDegraded, run.Counts.SummarySkipped),
					fmt.Sprintf("%d/%d/%d", run.Counts.Classified, run.Counts.ParseFailed+run.Counts.LLMFailed, run.Counts.ClassifySkipped),
					run.Error,
				})
			}
			fmt.Fprintln(out, renderTable([]column{
				{header: "Run"},
				{header: "Stage"},
				{header: "Status"},
				{header: "Started"},
				{header: "Took", align: alignRight},
				{header: "Rows", align: alignRight},
				{header: "Summary ok/deg/skip", align: alignRight},
				{header: "Topics ok/fail/skip", align: alignRight},
				{header: "Error", maxWidth: 40},
			}, rows))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum runs to show (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print runs as JSON")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return d.Round(time.Second).String()
}
