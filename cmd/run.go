package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/skiptrace-cli/internal/input"
	"github.com/sells-group/skiptrace-cli/internal/model"
	"github.com/sells-group/skiptrace-cli/internal/output"
	"github.com/sells-group/skiptrace-cli/internal/resolve"
)

var runCmd = &cobra.Command{
	Use:   "run <input.xlsx|input.csv>",
	Short: "Resolve every row of a spreadsheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		inputPath := args[0]
		sheet, _ := cmd.Flags().GetString("sheet")
		if sheet == "" {
			sheet = cfg.Input.Sheet
		}
		queries, rep, err := input.Load(inputPath, input.Options{Sheet: sheet, SkipBlank: cfg.Input.SkipBlank})
		if err != nil {
			return eris.Wrap(err, "load input")
		}
		zap.L().Info("input loaded",
			zap.String("path", inputPath),
			zap.Int("loaded", rep.Loaded),
			zap.Int("skipped", rep.Skipped),
		)

		if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
			fmt.Fprintf(cmd.OutOrStdout(), "loaded: %d\nskipped: %d\n", rep.Loaded, rep.Skipped)
			if len(rep.SkippedRows) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "skipped rows: %v\n", rep.SkippedRows)
			}
			return nil
		}

		if c, _ := cmd.Flags().GetInt("concurrency"); c > 0 {
			cfg.Batch.Concurrency = c
		}
		if f, _ := cmd.Flags().GetString("format"); f != "" {
			cfg.Output.Format = f
		}
		cascade, _ := cmd.Flags().GetString("cascade")

		env, err := initResolver(ctx, cascade)
		if err != nil {
			return err
		}
		defer env.Close()

		outPath, _ := cmd.Flags().GetString("output")
		if outPath == "" {
			outPath = cfg.Output.Path
		}
		if outPath == "" {
			outPath = output.DefaultPath(inputPath, cfg.Output.Format)
		}

		run, err := env.Store.CreateRun(ctx, inputPath)
		if err != nil {
			return eris.Wrap(err, "create run")
		}
		log := zap.L().With(zap.String("run_id", run.ID))

		summary, runErr := runBatch(ctx, env.Resolver, queries, cfg.Output.Format, outPath, cfg.Batch.Concurrency)
		summary.Loaded = rep.Loaded
		summary.Skipped = rep.Skipped

		// The run record outlives a cancelled context.
		recordCtx := context.WithoutCancel(ctx)
		if runErr != nil {
			if err := env.Store.FailRun(recordCtx, run.ID, runErr.Error()); err != nil {
				log.Warn("failed to record run failure", zap.Error(err))
			}
			return runErr
		}
		if err := env.Store.CompleteRun(recordCtx, run.ID, &summary); err != nil {
			log.Warn("failed to record run summary", zap.Error(err))
		}

		log.Info("run complete",
			zap.String("output", outPath),
			zap.Int64("resolved", summary.Resolved),
			zap.Int64("matched", summary.Matched),
		)
		fmt.Fprintf(cmd.OutOrStdout(), "run %s: %d resolved, %d matched, %d skipped -> %s\n",
			truncateID(run.ID), summary.Resolved, summary.Matched, summary.Skipped, outPath)
		return nil
	},
}

// runBatch resolves queries into a sink of the given format at path.
func runBatch(ctx context.Context, r *resolve.Resolver, queries []model.Query, format, path string, concurrency int) (model.RunSummary, error) {
	sink, err := output.Open(format, path)
	if err != nil {
		return model.RunSummary{}, err
	}

	stats, batchErr := resolve.Batch(ctx, r, queries, sink, concurrency)
	closeErr := sink.Close()

	summary := model.RunSummary{
		Resolved: stats.Processed,
		Matched:  stats.Matched,
		Failed:   int64(len(queries)) - stats.Processed,
		Duration: stats.Duration.Milliseconds(),
	}
	if batchErr != nil {
		return summary, batchErr
	}
	return summary, eris.Wrap(closeErr, "close output")
}

func init() {
	runCmd.Flags().StringP("output", "o", "", "output path (default <input>_results.<format>)")
	runCmd.Flags().String("format", "", "output format: xlsx, csv or jsonl (default from config)")
	runCmd.Flags().String("sheet", "", "xlsx sheet name (default first sheet)")
	runCmd.Flags().Int("concurrency", 0, "queries resolved in parallel (default from config)")
	runCmd.Flags().String("cascade", "", "cascade mode: legacy or escalate (default from config)")
	runCmd.Flags().Bool("dry-run", false, "load and validate input, then exit")
	rootCmd.AddCommand(runCmd)
}
