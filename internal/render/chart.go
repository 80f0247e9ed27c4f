package render

import (
	"fmt"
	"strings"

	"TickerCompare/internal/model"

	"github.com/guptarohit/asciigraph"
)

// Axis labels of the comparison chart.
const (
	YLabel = "Normalized Close (Starting at 100)"
	XLabel = "Date"
)

// ChartOptions controls the size and coloring of the ASCII chart.
type ChartOptions struct {
	Height int
	Width  int  // 0 plots one column per aligned date
	Color  bool // ANSI colors, off for chat clients
}

// DefaultChartOptions suit an 80-column terminal.
var DefaultChartOptions = ChartOptions{Height: 15, Width: 0, Color: true}

// Legend returns the legend label of a series.
func Legend(symbol string) string { return symbol + " (Normalized)" }

// Chart plots both aligned series of a ready comparison. Missing values are
// drawn as gaps. It returns "" when the comparison has nothing to plot.
func Chart(cmp *model.Comparison, opts ChartOptions) string {
	if !cmp.Ready() || cmp.Aligned == nil || cmp.Aligned.Len() == 0 {
		return ""
	}
	p := cmp.Aligned

	options := []asciigraph.Option{
		asciigraph.Height(opts.Height),
		asciigraph.Precision(1),
		asciigraph.Caption(cmp.Title),
	}
	if opts.Width > 0 {
		options = append(options, asciigraph.Width(opts.Width))
	}
	// asciigraph legends index SeriesColors, so they are only enabled with colors.
	if opts.Color {
		options = append(options,
			asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red),
			asciigraph.SeriesLegends(Legend(p.A.Symbol), Legend(p.B.Symbol)),
		)
	}

	var b strings.Builder
	b.WriteString(YLabel)
	b.WriteString("\n")
	b.WriteString(asciigraph.PlotMany([][]float64{p.A.Values, p.B.Values}, options...))
	b.WriteString("\n")
	if !opts.Color {
		fmt.Fprintf(&b, "Series: 1 = %s, 2 = %s\n", Legend(p.A.Symbol), Legend(p.B.Symbol))
	}
	fmt.Fprintf(&b, "%s: %s … %s\n", XLabel,
		p.Dates[0].Format(dateLayout), p.Dates[len(p.Dates)-1].Format(dateLayout))
	return b.String()
}
