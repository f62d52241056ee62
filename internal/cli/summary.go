package cli

import (
	"github.com/spf13/cobra"

	"wireup/internal/harness"
)

// NewSummaryCommand creates the summary command.
func NewSummaryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary <snapshot>",
		Short: "Print a markdown metric summary for a snapshot",
		Long: `Print the metrics of a persisted run snapshot as markdown table rows.

Intended for CI job summaries: the output can be appended directly to
a step summary file.

Exit codes:
  0 - Summary printed
  2 - Snapshot missing or corrupt

Example:
  wireup summary results/eval_v2.json >> "$GITHUB_STEP_SUMMARY"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runSummary(opts *RootOptions, path string, cmd *cobra.Command) error {
	run, err := harness.LoadSnapshot(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load snapshot", err)
	}

	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		return formatter.Success(run.Metrics)
	}

	printSummaryMarkdown(cmd.OutOrStdout(), run)
	return nil
}
