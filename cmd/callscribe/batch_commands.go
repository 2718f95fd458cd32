package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"callscribe/internal/batch"
	"callscribe/internal/config"
	"callscribe/internal/history"
	"callscribe/internal/logging"
	"callscribe/internal/records"
	"callscribe/internal/services"
	"callscribe/internal/summary"
	"callscribe/internal/topics"
)

type batchFlags struct {
	input       string
	output      string
	layout      string
	catalog     string
	concurrency int
	json        bool
}

type batchResult struct {
	RunID   string      `json:"run_id,omitempty"`
	Stage   string      `json:"stage"`
	Input   string      `json:"input"`
	Output  string      `json:"output"`
	Catalog string      `json:"catalog,omitempty"`
	Stats   batch.Stats `json:"stats"`
}

func newSummarizeCommand(ctx *commandContext) *cobra.Command {
	flags := &batchFlags{}
	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Append an LLM summary to every record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeBatch(cmd, ctx, batch.StageSummarize, flags)
		},
	}
	addBatchFlags(cmd, flags)
	cmd.Flags().StringVar(&flags.layout, "layout", "", "Input layout override (columns or comma-split)")
	return cmd
}

func newClassifyCommand(ctx *commandContext) *cobra.Command {
	flags := &batchFlags{}
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Assign three catalog topics to every summarized record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeBatch(cmd, ctx, batch.StageClassify, flags)
		},
	}
	addBatchFlags(cmd, flags)
	cmd.Flags().StringVar(&flags.catalog, "catalog", "", "Category catalog CSV (overrides catalog.path)")
	return cmd
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	flags := &batchFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Summarize and classify every record in one pass",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeBatch(cmd, ctx, batch.StageRun, flags)
		},
	}
	addBatchFlags(cmd, flags)
	cmd.Flags().StringVar(&flags.layout, "layout", "", "Input layout override (columns or comma-split)")
	cmd.Flags().StringVar(&flags.catalog, "catalog", "", "Category catalog CSV (overrides catalog.path)")
	return cmd
}

func addBatchFlags(cmd *cobra.Command, flags *batchFlags) {
	cmd.Flags().StringVarP(&flags.input, "input", "i", "", "Input CSV file")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output CSV file")
	cmd.Flags().IntVar(&flags.concurrency, "concurrency", 0, "Rows processed in parallel (overrides batch.concurrency)")
	cmd.Flags().BoolVar(&flags.json, "json", false, "Print the run result as JSON")
}

func executeBatch(cmd *cobra.Command, ctx *commandContext, stage batch.Stage, flags *batchFlags) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}
	input, err := expandRequiredPath("input", flags.input)
	if err != nil {
		return err
	}
	output, err := expandRequiredPath("output", flags.output)
	if err != nil {
		return err
	}
	if input == output {
		return services.Wrap(services.ErrValidation, "cli", "flags", "--input and --output must differ", nil)
	}

	lock, err := records.LockOutput(output)
	if err != nil {
		return err
	}
	defer lock.Unlock()

	runCtx := cmd.Context()
	if runCtx == nil {
		runCtx = context.Background()
	}
	store, run := beginRun(runCtx, cfg, logger, stage, input, output)
	if store != nil {
		defer store.Close()
		runCtx = logging.WithRunID(runCtx, run.ID)
	}

	result, runErr := processBatch(runCtx, ctx, cfg, logger, stage, flags, input, output)
	if store != nil {
		if err := store.Finish(context.WithoutCancel(runCtx), run, countsFrom(result.Stats), runErr); err != nil {
			logging.WarnWithContext(logger, "run history update failed", "history_finish_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "run is left in the running state in history"),
			)
		}
		result.RunID = run.ID
	}
	if runErr != nil {
		return runErr
	}

	if flags.json {
		return writeJSON(cmd, result)
	}
	printBatchResult(cmd, result)
	return nil
}

// beginRun records the run in history. History is a ledger, so an
// unavailable database only costs the record, not the batch.
func beginRun(ctx context.Context, cfg *config.Config, logger *slog.Logger, stage batch.Stage, input, output string) (*history.Store, *history.Run) {
	store, err := history.Open(cfg)
	if err != nil {
		logging.WarnWithContext(logger, "run history unavailable", "history_open_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "this run will not appear in `callscribe runs`"),
		)
		return nil, nil
	}
	run, err := store.Begin(ctx, string(stage), input, output)
	if err != nil {
		logging.WarnWithContext(logger, "run history insert failed", "history_begin_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "this run will not appear in `callscribe runs`"),
		)
		_ = store.Close()
		return nil, nil
	}
	return store, run
}

func processBatch(
	ctx context.Context,
	cc *commandContext,
	cfg *config.Config,
	logger *slog.Logger,
	stage batch.Stage,
	flags *batchFlags,
	input, output string,
) (batchResult, error) {
	result := batchResult{Stage: string(stage), Input: input, Output: output}

	opts := records.OptionsFromConfig(cfg.Input)
	if layout := strings.ToLower(strings.TrimSpace(flags.layout)); layout != "" {
		opts.Layout = records.Layout(strings.ReplaceAll(layout, "_", "-"))
	}

	// Every fatal input problem surfaces before the first LLM call.
	table, err := records.ReadTable(input, cfg.Input.Encoding)
	if err != nil {
		return result, err
	}
	var frame *records.Frame
	if stage == batch.StageClassify {
		frame, err = records.ClassifyFrame(table, opts)
	} else {
		frame, err = records.SummaryFrame(table, opts)
	}
	if err != nil {
		return result, err
	}

	var catalog *topics.Catalog
	if stage != batch.StageSummarize {
		catalog, result.Catalog, err = cc.loadCatalog(flags.catalog)
		if err != nil {
			return result, err
		}
	}

	client, err := cc.llmClient()
	if err != nil {
		return result, err
	}
	concurrency := cfg.Batch.Concurrency
	if flags.concurrency > 0 {
		concurrency = flags.concurrency
	}
	runner := batch.NewRunner(
		summary.NewService(client, logger),
		topics.NewClassifier(client, catalog, logger),
		batch.WithConcurrency(concurrency),
		batch.WithProgressEvery(cfg.Batch.ProgressEvery),
		batch.WithLogger(logger),
	)

	var out *records.Table
	switch stage {
	case batch.StageSummarize:
		out, result.Stats, err = runner.Summarize(ctx, frame)
	case batch.StageClassify:
		out, result.Stats, err = runner.Classify(ctx, frame)
	default:
		out, result.Stats, err = runner.Run(ctx, frame)
	}
	if err != nil {
		return result, err
	}
	if err := records.WriteTable(output, out); err != nil {
		return result, err
	}
	return result, nil
}

func countsFrom(stats batch.Stats) history.Counts {
	return history.Counts{
		Rows:            stats.Rows,
		Summarized:      stats.Summarized,
		SummarySkipped:  stats.SummarySkipped,
		SummaryDegraded: stats.SummaryDegraded,
		Classified:      stats.Classified,
		ClassifySkipped: stats.ClassifySkipped,
		ParseFailed:     stats.ParseFailed,
		LLMFailed:       stats.LLMFailed,
	}
}

func printBatchResult(cmd *cobra.Command, result batchResult) {
	out := cmd.OutOrStdout()
	stats := result.Stats
	fmt.Fprintf(out, "Processed %d rows -> %s\n", stats.Rows, result.Output)
	if result.Stage != string(batch.StageClassify) {
		fmt.Fprintf(out, "  summaries: %d written, %d degraded, %d skipped\n",
			stats.Summarized, stats.SummaryDegraded, stats.SummarySkipped)
	}
	if result.Stage != string(batch.StageSummarize) {
		fmt.Fprintf(out, "  topics:    %d classified, %d unparseable, %d llm failures, %d skipped\n",
			stats.Classified, stats.ParseFailed, stats.LLMFailed, stats.ClassifySkipped)
	}
	if result.RunID != "" {
		fmt.Fprintf(out, "Run %s\n", result.RunID)
	}
}
