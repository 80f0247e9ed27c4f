package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"
)

type historyCmd struct {
	limit int

	out io.Writer
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "list recent comparisons from the journal" }
func (*historyCmd) Usage() string {
	return `history [-n <count>]

  Lists the most recent comparisons recorded in database.sqlite_path.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "n", 20, "number of entries to show")
}

func (c *historyCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.limit <= 0 {
		fmt.Fprintln(os.Stderr, "-n must be positive")
		return subcommands.ExitUsageError
	}
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if cfg.Database.SQLitePath == "" {
		fmt.Fprintln(os.Stderr, "Error: database.sqlite_path is not configured")
		return subcommands.ExitFailure
	}

	rec := OpenRecorder(cfg.Database.SQLitePath)
	defer rec.Close()
	entries, err := rec.Recent(c.limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	out := c.out
	if out == nil {
		out = os.Stdout
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "Date\tA\tB\tOutcome\tA %\tB %")
	for _, e := range entries {
		changeA, changeB := "-", "-"
		if e.Ready {
			changeA, changeB = fmt.Sprintf("%+.1f", e.ChangeA), fmt.Sprintf("%+.1f", e.ChangeB)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", e.CreatedAt.Format("2006-01-02 15:04"),
			e.SymbolA, e.SymbolB, e.Outcome, changeA, changeB)
	}
	if err := w.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
