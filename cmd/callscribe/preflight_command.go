package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"callscribe/internal/preflight"
	"callscribe/internal/services"
	"callscribe/internal/services/llm"
)

func newPreflightCommand(ctx *commandContext) *cobra.Command {
	var skipLLM bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "preflight",
		Short: "Check directories, catalog and LLM endpoint before a batch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			var pinger preflight.Pinger
			if !skipLLM {
				llmCfg := llmConfigFrom(cfg)
				llmCfg.MaxAttempts = 1
				pinger = llm.NewClient(llmCfg, llm.WithLogger(logger))
			}

			results := preflight.RunAll(cmd.Context(), cfg, pinger)
			if asJSON {
				if err := writeJSON(cmd, results); err != nil {
					return err
				}
			} else {
				rows := make([][]string, 0, len(results))
				for _, r := range results {
					status := "ok"
					if !r.Passed {
						status = "FAIL"
					}
					rows = append(rows, []string{r.Name, status, r.Detail})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]column{
					{header: "Check"},
					{header: "Status"},
					{header: "Detail", maxWidth: 72},
				}, rows))
			}

			if failed := preflight.Failed(results); failed > 0 {
				return services.Wrap(services.ErrConfiguration, "preflight", "run checks",
					fmt.Sprintf("%d of %d checks failed", failed, len(results)), nil)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&skipLLM, "skip-llm", false, "Skip the LLM endpoint ping")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit results as JSON")
	return cmd
}
