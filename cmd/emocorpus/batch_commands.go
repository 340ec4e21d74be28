package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"emocorpus/internal/batch"
	"emocorpus/internal/dataset"
	"emocorpus/internal/journal"
	"emocorpus/internal/label"
	"emocorpus/internal/metrics"
)

type batchFlags struct {
	datasets    []string
	noResume    bool
	workers     int
	xlsx        bool
	failOnError bool
	json        bool
}

type batchFunc func(*batch.Runner, context.Context) ([]batch.Summary, error)

func single(fn func(*batch.Runner, context.Context) (batch.Summary, error)) batchFunc {
	return func(r *batch.Runner, ctx context.Context) ([]batch.Summary, error) {
		summary, err := fn(r, ctx)
		if summary.Stage == "" {
			return nil, err
		}
		return []batch.Summary{summary}, err
	}
}

func newBatchCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newBatchCommand(ctx, "collect", "Copy dataset clips into the pool under unified labels", single((*batch.Runner).Collect), true),
		newBatchCommand(ctx, "extract", "Run SMILExtract on every pool clip", single((*batch.Runner).Extract), false),
		newBatchCommand(ctx, "convert", "Convert feature exports into numeric tables", single((*batch.Runner).Convert), false),
		newBatchCommand(ctx, "run", "Collect, extract, and convert in one pass", (*batch.Runner).All, true),
	}
}

func newBatchCommand(ctx *commandContext, use, short string, fn batchFunc, collects bool) *cobra.Command {
	flags := &batchFlags{}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, ctx, flags, fn)
		},
	}
	if collects {
		cmd.Flags().StringSliceVarP(&flags.datasets, "dataset", "d", nil, "Limit collection to these datasets (tess, savee, ravdess, cremad)")
	}
	cmd.Flags().BoolVar(&flags.noResume, "no-resume", false, "Reprocess files the journal already marks done")
	cmd.Flags().IntVarP(&flags.workers, "workers", "w", 0, "Override workflow.workers")
	if use == "convert" || use == "run" {
		cmd.Flags().BoolVar(&flags.xlsx, "xlsx", false, "Also write an .xlsx workbook next to each table")
	}
	cmd.Flags().BoolVar(&flags.failOnError, "fail-on-error", false, "Exit non-zero when any file failed")
	cmd.Flags().BoolVar(&flags.json, "json", false, "Output summaries as JSON")
	return cmd
}

func runBatch(cmd *cobra.Command, ctx *commandContext, flags *batchFlags, fn batchFunc) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if flags.workers > 0 {
		cfg.Workflow.Workers = flags.workers
	}
	if flags.xlsx {
		cfg.Export.XLSX = true
	}

	var opts []batch.Option
	if len(flags.datasets) > 0 {
		kinds := make([]dataset.Kind, 0, len(flags.datasets))
		for _, name := range flags.datasets {
			kind, err := dataset.ParseKind(name)
			if err != nil {
				return err
			}
			kinds = append(kinds, kind)
		}
		opts = append(opts, batch.WithDatasets(kinds...))
	}
	if flags.noResume {
		opts = append(opts, batch.WithResume(false))
	}
	if cfg.Export.Metrics {
		opts = append(opts, batch.WithMetrics(metrics.New()))
	}

	logger, closeLog, err := ctx.logger()
	if err != nil {
		return err
	}
	defer closeLog()

	signalCtx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return ctx.withJournal(func(store *journal.Store) error {
		runner, err := batch.New(cfg, store, logger, opts...)
		if err != nil {
			return err
		}
		summaries, runErr := fn(runner, signalCtx)
		if len(summaries) > 0 {
			if flags.json {
				if err := writeJSON(cmd, summaries); err != nil {
					return err
				}
			} else {
				printSummaries(cmd.OutOrStdout(), summaries, shouldColorize(cmd.OutOrStdout()))
			}
		}
		if runErr != nil {
			return runErr
		}
		if flags.failOnError {
			failed := 0
			for _, s := range summaries {
				failed += s.Failed
			}
			if failed > 0 {
				return fmt.Errorf("%d file(s) failed", failed)
			}
		}
		return nil
	})
}

const maxListedFailures = 10

func printSummaries(out io.Writer, summaries []batch.Summary, colorize bool) {
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			string(s.Stage),
			strconv.Itoa(s.Total),
			strconv.Itoa(s.Succeeded),
			strconv.Itoa(s.Skipped),
			strconv.Itoa(s.Failed),
			s.Duration.Round(time.Millisecond).String(),
			stageNote(s),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Stage", "Total", "Done", "Skipped", "Failed", "Elapsed", "Notes"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignLeft},
	))

	for _, s := range summaries {
		if len(s.Labels) > 0 {
			fmt.Fprintln(out, renderLabelDistribution(s.Labels))
		}
	}

	for _, s := range summaries {
		if len(s.Failures) == 0 {
			continue
		}
		for _, line := range renderSectionHeader(fmt.Sprintf("%s failures", s.Stage), colorize) {
			fmt.Fprintln(out, line)
		}
		for i, f := range s.Failures {
			if i == maxListedFailures {
				fmt.Fprintln(out, renderStatusLine("more", statusWarn, fmt.Sprintf("%d additional failures; see emocorpus status", len(s.Failures)-i), colorize))
				break
			}
			fmt.Fprintln(out, renderStatusLine(f.Kind, statusError, f.Path, colorize))
		}
	}
	if s := runID(summaries); s != "" {
		fmt.Fprintf(out, "Run ID: %s\n", s)
	}
}

func stageNote(s batch.Summary) string {
	var notes []string
	if s.Unknown > 0 {
		notes = append(notes, fmt.Sprintf("%d unknown labels", s.Unknown))
	}
	if s.Stage == journal.StageConvert && (s.Succeeded > 0 || s.Rows > 0) {
		notes = append(notes, fmt.Sprintf("%d rows", s.Rows))
		if s.NaNCells > 0 {
			notes = append(notes, fmt.Sprintf("%d NaN cells", s.NaNCells))
		}
		if s.Dropped > 0 {
			notes = append(notes, fmt.Sprintf("%d malformed lines", s.Dropped))
		}
	}
	return strings.Join(notes, ", ")
}

func renderLabelDistribution(counts map[string]int) string {
	codes := make([]string, 0, len(counts))
	for code := range counts {
		codes = append(codes, code)
	}
	order := make(map[string]int)
	for i, code := range label.Codes() {
		order[string(code)] = i
	}
	sort.Slice(codes, func(i, j int) bool { return order[codes[i]] < order[codes[j]] })

	rows := make([][]string, 0, len(codes))
	total := 0
	for _, code := range codes {
		rows = append(rows, []string{code, strconv.Itoa(label.ArousalOf(label.Code(code))), strconv.Itoa(counts[code])})
		total += counts[code]
	}
	return renderTable(
		[]string{"Code", "Arousal", "Files"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight},
		"Total", "", strconv.Itoa(total),
	)
}

func runID(summaries []batch.Summary) string {
	for _, s := range summaries {
		if s.RunID != "" {
			return s.RunID
		}
	}
	return ""
}
