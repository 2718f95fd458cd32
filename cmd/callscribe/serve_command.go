package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"callscribe/internal/api"
	"callscribe/internal/history"
	"callscribe/internal/logging"
	"callscribe/internal/summary"
	"callscribe/internal/topics"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string
	var catalogPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve summary and classification over HTTP",
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
			client, err := ctx.llmClient()
			if err != nil {
				return err
			}

			deps := api.Deps{
				Summarizer:     summary.NewService(client, logger),
				Logger:         logger,
				RequestTimeout: time.Duration(cfg.Server.RequestTimeoutSeconds) * time.Second,
			}

			if strings.TrimSpace(catalogPath) != "" || cfg.Catalog.Path != "" {
				catalog, _, err := ctx.loadCatalog(catalogPath)
				if err != nil {
					return err
				}
				deps.Classifier = topics.NewClassifier(client, catalog, logger)
			} else {
				logging.WarnWithContext(logger, "no catalog configured", "catalog_missing",
					logging.String(logging.FieldImpact, "classification and catalog routes answer 503"),
				)
			}

			if store, err := history.Open(cfg); err != nil {
				logging.WarnWithContext(logger, "run history unavailable", "history_open_failed",
					logging.Error(err),
					logging.String(logging.FieldImpact, "runs route answers 503"),
				)
			} else {
				defer store.Close()
				deps.Runs = store
			}

			addr := strings.TrimSpace(bind)
			if addr == "" {
				addr = cfg.Server.Bind
			}
			out := cmd.OutOrStdout()
			return api.Serve(cmd.Context(), addr, api.NewRouter(deps), logger, func(listening string) {
				fmt.Fprintf(out, "Listening on http://%s\n", listening)
			})
		},
	}
	cmd.Flags().StringVar(&bind, "bind", "", "Listen address (overrides server.bind)")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Category catalog CSV (overrides catalog.path)")
	return cmd
}
