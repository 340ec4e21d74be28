package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"emocorpus/internal/journal"
)

type statusReport struct {
	Journal  string        `json:"journal"`
	Stages   []stageStatus `json:"stages"`
	LastRun  *journal.Run  `json:"last_run,omitempty"`
	Failures []journal.Job `json:"failures,omitempty"`
}

type stageStatus struct {
	Stage  journal.Stage `json:"stage"`
	Done   int           `json:"done"`
	Failed int           `json:"failed"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var failures int
	var stageName string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show journaled progress per stage and recent failures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stage, err := parseStage(stageName)
			if err != nil {
				return err
			}
			return ctx.withJournal(func(store *journal.Store) error {
				report, err := buildStatusReport(cmd, store, stage, failures)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, report)
				}
				printStatus(cmd.OutOrStdout(), report, shouldColorize(cmd.OutOrStdout()))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&failures, "failures", "n", 10, "Number of recent failures to list")
	cmd.Flags().StringVar(&stageName, "stage", "", "Only list failures of this stage (collect, extract, convert)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func parseStage(value string) (journal.Stage, error) {
	if value == "" {
		return "", nil
	}
	for _, stage := range journal.Stages() {
		if string(stage) == value {
			return stage, nil
		}
	}
	return "", fmt.Errorf("unknown stage %q (expected collect, extract, or convert)", value)
}

func buildStatusReport(cmd *cobra.Command, store *journal.Store, stage journal.Stage, failures int) (statusReport, error) {
	report := statusReport{Journal: store.Path()}

	counts, err := store.StageCounts(cmd.Context())
	if err != nil {
		return report, err
	}
	byStage := make(map[journal.Stage]*stageStatus)
	for _, s := range journal.Stages() {
		entry := &stageStatus{Stage: s}
		byStage[s] = entry
	}
	for _, c := range counts {
		entry, ok := byStage[c.Stage]
		if !ok {
			continue
		}
		switch c.Status {
		case journal.StatusDone:
			entry.Done = c.Count
		case journal.StatusFailed:
			entry.Failed = c.Count
		}
	}
	for _, s := range journal.Stages() {
		report.Stages = append(report.Stages, *byStage[s])
	}

	if report.LastRun, err = store.LastRun(cmd.Context()); err != nil {
		return report, err
	}
	if failures > 0 {
		if report.Failures, err = store.Failures(cmd.Context(), stage, failures); err != nil {
			return report, err
		}
	}
	return report, nil
}

func printStatus(out io.Writer, report statusReport, colorize bool) {
	rows := make([][]string, 0, len(report.Stages))
	for _, s := range report.Stages {
		rows = append(rows, []string{string(s.Stage), strconv.Itoa(s.Done), strconv.Itoa(s.Failed)})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Stage", "Done", "Failed"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight},
	))

	if run := report.LastRun; run != nil {
		finished := "still running or interrupted"
		kind := statusWarn
		if !run.FinishedAt.IsZero() {
			finished = run.FinishedAt.Local().Format(time.DateTime)
			kind = statusOK
			if run.Failed > 0 {
				kind = statusWarn
			}
		}
		fmt.Fprintln(out, renderStatusLine("Last run", kind,
			fmt.Sprintf("%s %s (%d done, %d failed, %d skipped) finished %s", run.Command, run.ID, run.Succeeded, run.Failed, run.Skipped, finished),
			colorize))
	} else {
		fmt.Fprintln(out, renderStatusLine("Last run", statusInfo, "none", colorize))
	}
	fmt.Fprintln(out, renderStatusLine("Journal", statusInfo, report.Journal, colorize))

	if len(report.Failures) == 0 {
		return
	}
	for _, line := range renderSectionHeader("Recent failures", colorize) {
		fmt.Fprintln(out, line)
	}
	for _, job := range report.Failures {
		fmt.Fprintln(out, renderStatusLine(string(job.Stage)+" "+job.ErrorKind, statusError, job.SourcePath, colorize))
		if job.ErrorMessage != "" {
			fmt.Fprintf(out, "%s%s\n", statusIndent+statusIndent, job.ErrorMessage)
		}
	}
}

func newResetCommand(ctx *commandContext) *cobra.Command {
	var stageName string
	var confirm bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Forget journaled outcomes so files are processed again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stage, err := parseStage(stageName)
			if err != nil {
				return err
			}
			if !confirm {
				return fmt.Errorf("reset clears the journal%s; re-run with --yes to confirm", stageSuffix(stage))
			}
			return ctx.withJournal(func(store *journal.Store) error {
				removed, err := store.Reset(cmd.Context(), stage)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d journal entr%s%s\n", removed, pluralY(removed), stageSuffix(stage))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&stageName, "stage", "", "Only reset this stage (collect, extract, convert)")
	cmd.Flags().BoolVar(&confirm, "yes", false, "Confirm the reset")
	return cmd
}

func stageSuffix(stage journal.Stage) string {
	if stage == "" {
		return ""
	}
	return " for " + string(stage)
}

func pluralY(n int64) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
