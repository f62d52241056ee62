package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"wireup/internal/catalog"
)

// ActionsOptions holds flags for the actions command.
type ActionsOptions struct {
	*RootOptions
	Catalog string
}

// NewActionsCommand creates the actions command.
func NewActionsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ActionsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "actions [query]",
		Short: "List available integration actions",
		Long: `List the integration actions the agent can select from.

With a query argument, only actions whose ID, name, or description
contains the query (case-insensitive) are shown.

Examples:
  wireup actions
  wireup actions slack
  wireup actions "spreadsheet" --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			return runActions(opts, query, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Catalog, "catalog", "", "path to a catalog JSON file (default: built-in catalog)")

	return cmd
}

func runActions(opts *ActionsOptions, query string, cmd *cobra.Command) error {
	cat, err := loadCatalog(opts.Catalog)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load action catalog", err)
	}

	actions := cat.All()
	if query != "" {
		actions = cat.Filter(query)
	}

	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		return formatter.Success(actions)
	}

	if len(actions) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No actions matched.")
		return nil
	}
	for _, action := range actions {
		fmt.Fprintf(cmd.OutOrStdout(), "%-24s %s\n", action.ID, action.Description)
		if opts.Verbose {
			fmt.Fprintf(cmd.OutOrStdout(), "%-24s integration=%s docs=%s\n", "", action.Integration, action.APIReference)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d action(s)\n", len(actions))
	return nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.Load(path)
}
