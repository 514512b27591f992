package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/roach88/bfc/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Cache string // translation cache database
	Limit int    // maximum records shown
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded builds",
		Long: `List the builds recorded in a translation cache, newest first.

Every build and compile run with --cache appends one record, including
runs rejected for unbalanced brackets or failed by the toolchain.

Examples:
  bfc history --cache bfc.db
  bfc history --cache bfc.db --limit 5 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Cache, "cache", "", "translation cache database (required)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of builds to list (0 for all)")
	_ = cmd.MarkFlagRequired("cache")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	// Opening would create an empty database; a missing file is a typo.
	if _, err := os.Stat(opts.Cache); os.IsNotExist(err) {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound,
			fmt.Sprintf("cache database not found: %s", opts.Cache), nil)
	}

	st, err := store.Open(opts.Cache)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeCacheFailed, err.Error(), nil)
	}
	defer st.Close()

	builds, err := st.ListBuilds(cmd.Context(), opts.Limit)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeCacheFailed, err.Error(), nil)
	}

	if opts.Format == "json" {
		return formatter.Success(builds)
	}

	w := cmd.OutOrStdout()
	if len(builds) == 0 {
		fmt.Fprintln(w, "No builds recorded.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Seq", "Status", "Target", "Source", "Output", "ID"})
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	for _, b := range builds {
		table.Append([]string{strconv.FormatInt(b.Seq, 10), b.Status, b.Target, b.SourcePath, b.OutputPath, b.ID})
	}
	table.Render()
	return nil
}
