package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"TickerCompare/internal/model"
	"TickerCompare/internal/render"

	"github.com/google/subcommands"
)

// compareCmd holds the flags for the 'compare' subcommand.
type compareCmd struct {
	chart    bool
	raw      bool
	wrap     int
	htmlFile string
	jsonFile string

	out io.Writer
}

func (*compareCmd) Name() string     { return "compare" }
func (*compareCmd) Synopsis() string { return "compare the performance of two tickers" }
func (*compareCmd) Usage() string {
	return `compare [-chart=false] [-raw] [-html <file>] [-json <file>] <A> <B>

  Normalizes the trailing monthly closes of A and B to 100 and compares them.
`
}

func (c *compareCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.chart, "chart", true, "include the ASCII chart")
	f.BoolVar(&c.raw, "raw", false, "print raw markdown instead of rendering it for the terminal")
	f.IntVar(&c.wrap, "wrap", 100, "terminal word wrap width")
	f.StringVar(&c.htmlFile, "html", "", "also write the report as an HTML document to this file")
	f.StringVar(&c.jsonFile, "json", "", "also write the comparison as JSON to this file")
}

func (c *compareCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 2 {
		fmt.Fprintln(os.Stderr, "compare takes at most two ticker symbols")
		return subcommands.ExitUsageError
	}
	args := append(f.Args(), "", "")

	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	svc, err := NewService(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer svc.Recorder.Close()

	cmp := svc.Run(ctx, args[0], args[1])
	if err := c.present(cmp); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	switch cmp.Outcome {
	case model.OutcomeIncomplete, model.OutcomeFailed:
		return subcommands.ExitFailure
	default:
		return subcommands.ExitSuccess
	}
}

// present prints the report and writes the requested exports.
func (c *compareCmd) present(cmp *model.Comparison) error {
	out := c.out
	if out == nil {
		out = os.Stdout
	}

	md := render.Markdown(cmp, render.ReportOptions{SkipChart: !c.chart})
	text := md
	if !c.raw {
		var err error
		if text, err = render.Terminal(md, c.wrap); err != nil {
			return err
		}
	}
	fmt.Fprint(out, text)

	if c.htmlFile != "" {
		doc, err := render.HTML(md, cmp.Title)
		if err != nil {
			return err
		}
		if err := os.WriteFile(c.htmlFile, []byte(doc), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", c.htmlFile, err)
		}
	}
	if c.jsonFile != "" {
		if err := render.WriteJSON(c.jsonFile, cmp); err != nil {
			return err
		}
	}
	return nil
}
