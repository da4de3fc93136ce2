package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/arduhome/internal/store"
)

// DefaultHistoryDB is the history database used when --db is not given.
const DefaultHistoryDB = "arduhome.db"

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	DB    string
	Limit int
}

// HistoryReport is the JSON payload of the history command.
type HistoryReport struct {
	Builds []store.Build `json:"builds"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "history",
		Short:         "List recorded builds, newest first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", DefaultHistoryDB, "history database")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of builds (0 for all)")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	s, err := store.Open(opts.DB)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeHistory, err.Error(), nil)
	}
	defer s.Close()

	builds, err := s.List(cmd.Context(), opts.Limit)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeHistory, err.Error(), nil)
	}

	if formatter.JSON() {
		if builds == nil {
			builds = []store.Build{}
		}
		return formatter.Success(HistoryReport{Builds: builds})
	}

	if len(builds) == 0 {
		fmt.Fprintln(formatter.Writer, "No builds recorded")
		return nil
	}
	fmt.Fprintf(formatter.Writer, "%-5s %-20s %-12s %s\n", "SEQ", "DEVICE", "DIGEST", "OUTPUT")
	for _, b := range builds {
		fmt.Fprintf(formatter.Writer, "%-5d %-20s %-12s %s\n", b.Seq, b.Device, shortDigest(b.Digest), b.OutputDir)
	}
	return nil
}

func shortDigest(d string) string {
	if len(d) > 12 {
		return d[:12]
	}
	return d
}
