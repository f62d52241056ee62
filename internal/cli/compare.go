package cli

import (
	"github.com/spf13/cobra"

	"wireup/internal/harness"
)

// NewCompareCommand creates the compare command.
func NewCompareCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <baseline> <current>",
		Short: "Compare two run snapshots",
		Long: `Compare two persisted run snapshots metric by metric.

For each metric the delta and its direction are reported. Direction
accounts for polarity: higher is better for accuracy and validity
rates, lower is better for latency and error rate. A metric missing
from either snapshot is reported as "not available".

Exit codes:
  0 - Comparison printed (regardless of regressions)
  2 - Snapshot missing or corrupt

Examples:
  wireup compare results/eval_v1.json results/eval_v2.json
  wireup compare results/eval_v1.json results/eval_v2.json --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(rootOpts, args[0], args[1], cmd)
		},
	}

	return cmd
}

func runCompare(opts *RootOptions, baselinePath, currentPath string, cmd *cobra.Command) error {
	baseline, err := harness.LoadSnapshot(baselinePath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load baseline snapshot", err)
	}
	current, err := harness.LoadSnapshot(currentPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load current snapshot", err)
	}

	comparison := harness.Compare(baseline, current)

	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		return formatter.Success(comparison)
	}

	printComparison(cmd.OutOrStdout(), comparison)
	return nil
}
