package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"wireup/internal/harness"
)

var (
	reportTitleStyle = lipgloss.NewStyle().Bold(true)
	passStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	neutralStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

const reportRule = "============================================================"

// printRunReport renders a completed run for terminal output.
func printRunReport(w io.Writer, run *harness.EvalRun) {
	fmt.Fprintln(w, reportRule)
	fmt.Fprintln(w, reportTitleStyle.Render("EVALUATION RESULTS"))
	fmt.Fprintln(w, reportRule)
	fmt.Fprintf(w, "Run ID:             %s\n", run.RunID)
	fmt.Fprintf(w, "Timestamp:          %s\n", run.Timestamp.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(w, "Code Revision:      %s\n", run.CodeRevision)
	fmt.Fprintf(w, "Prompt Fingerprint: %s\n", run.PromptFingerprint)
	fmt.Fprintf(w, "Total Scenarios:    %d\n", run.TotalScenarios)
	fmt.Fprintln(w)

	fmt.Fprintln(w, reportTitleStyle.Render("METRICS"))
	fmt.Fprintf(w, "  Action Accuracy:  %.1f%%\n", run.Metrics[harness.MetricActionAccuracy])
	fmt.Fprintf(w, "  Liquid Valid:     %.1f%%\n", run.Metrics[harness.MetricLiquidValid])
	fmt.Fprintf(w, "  Renders to JSON:  %.1f%%\n", run.Metrics[harness.MetricRendersToJSON])
	fmt.Fprintf(w, "  Avg Latency:      %.0fms\n", run.Metrics[harness.MetricAvgLatencyMS])
	fmt.Fprintf(w, "  Error Rate:       %.1f%%\n", run.Metrics[harness.MetricErrorRate])
	fmt.Fprintln(w)

	fmt.Fprintln(w, reportTitleStyle.Render("SCENARIO DETAILS"))
	for _, outcome := range run.Outcomes {
		marker := passStyle.Render("PASS")
		if outcome.Error != "" || !outcome.ActionCorrect {
			marker = failStyle.Render("FAIL")
		}
		fmt.Fprintf(w, "  %s [%d] %s\n", marker, outcome.ScenarioID+1, truncate(outcome.Request, 50))
		fmt.Fprintf(w, "       Expected: %s\n", outcome.ExpectedAction)
		if outcome.Error != "" {
			fmt.Fprintf(w, "       Error:    %s\n", truncate(outcome.Error, 70))
			continue
		}
		fmt.Fprintf(w, "       Got:      %s\n", outcome.ActualAction)
		if !outcome.LiquidValid {
			fmt.Fprintln(w, "       Template: invalid Liquid syntax")
		} else if !outcome.RendersToJSON {
			fmt.Fprintln(w, "       Template: renders, but not to valid JSON")
		}
	}
	fmt.Fprintln(w, reportRule)
}

// printComparison renders a metric delta table.
func printComparison(w io.Writer, comparison *harness.Comparison) {
	fmt.Fprintln(w, reportRule)
	fmt.Fprintln(w, reportTitleStyle.Render("COMPARISON RESULTS"))
	fmt.Fprintln(w, reportRule)
	fmt.Fprintf(w, "Baseline: %s (prompt %s)\n",
		comparison.BeforeTimestamp.Format("2006-01-02 15:04:05"), comparison.BeforeFingerprint)
	fmt.Fprintf(w, "Current:  %s (prompt %s)\n",
		comparison.AfterTimestamp.Format("2006-01-02 15:04:05"), comparison.AfterFingerprint)
	fmt.Fprintln(w)

	for _, delta := range comparison.Deltas {
		if delta.Direction == harness.DirectionNotAvailable {
			fmt.Fprintf(w, "  %-16s %s\n", delta.Metric+":", neutralStyle.Render("not available"))
			continue
		}
		change := fmt.Sprintf("%+.1f", delta.Delta)
		label := delta.Direction
		switch delta.Direction {
		case harness.DirectionImproved:
			label = passStyle.Render(label)
		case harness.DirectionRegressed:
			label = failStyle.Render(label)
		default:
			label = neutralStyle.Render(label)
		}
		fmt.Fprintf(w, "  %-16s %.1f -> %.1f (%s) %s\n",
			delta.Metric+":", delta.Before, delta.After, change, label)
	}
	fmt.Fprintln(w, reportRule)
}

// printSummaryMarkdown emits the metric table rows used in CI job
// summaries.
func printSummaryMarkdown(w io.Writer, run *harness.EvalRun) {
	fmt.Fprintf(w, "| Action Accuracy | %.1f%% |\n", run.Metrics[harness.MetricActionAccuracy])
	fmt.Fprintf(w, "| Liquid Valid | %.1f%% |\n", run.Metrics[harness.MetricLiquidValid])
	fmt.Fprintf(w, "| Renders to JSON | %.1f%% |\n", run.Metrics[harness.MetricRendersToJSON])
	fmt.Fprintf(w, "| Avg Latency | %.0fms |\n", run.Metrics[harness.MetricAvgLatencyMS])
	fmt.Fprintf(w, "| Error Rate | %.1f%% |\n", run.Metrics[harness.MetricErrorRate])
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Prompt Fingerprint: `%s`\n", run.PromptFingerprint)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return strings.TrimSpace(s[:max]) + "..."
}
