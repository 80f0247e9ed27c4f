package render

import (
	"embed"
	"fmt"
	"strings"
	"text/template"

	"TickerCompare/internal/model"
)

//go:embed templates/*.md
var templates embed.FS

const dateLayout = "2006-01-02"

var funcs = template.FuncMap{
	"f1":     func(v float64) string { return fmt.Sprintf("%.1f", v) },
	"signed": func(v float64) string { return fmt.Sprintf("%+.1f", v) },
}

var reportTemplate = template.Must(
	template.New("comparison.md").Funcs(funcs).ParseFS(templates, "templates/comparison.md"))

// report is the view of a comparison consumed by the template.
type report struct {
	Title     string
	Checks    []model.SymbolCheck
	Message   string
	Ready     bool
	Chart     string
	Summaries []model.PerformanceSummary
	First     string
	Last      string
	Dates     int
}

func newReport(cmp *model.Comparison, chart ChartOptions) report {
	r := report{
		Checks:  cmp.Checks,
		Message: cmp.Message,
		Ready:   cmp.Ready(),
	}
	if cmp.Outcome != model.OutcomePrompt {
		r.Title = cmp.Title
	}
	if r.Ready {
		r.Chart = Chart(cmp, chart)
		r.Summaries = cmp.Summaries
		r.Dates = cmp.Aligned.Len()
		r.First = cmp.Aligned.Dates[0].Format(dateLayout)
		r.Last = cmp.Aligned.Dates[r.Dates-1].Format(dateLayout)
	}
	return r
}

// ReportOptions holds configuration for rendering a comparison report.
type ReportOptions struct {
	SkipChart bool // Do not render the chart section.
}

// Markdown renders the comparison report as markdown. The embedded chart is
// never colored so the output stays plain text.
func Markdown(cmp *model.Comparison, opts ReportOptions) string {
	chart := DefaultChartOptions
	chart.Color = false

	r := newReport(cmp, chart)
	if opts.SkipChart {
		r.Chart = ""
	}
	var b strings.Builder
	if err := reportTemplate.Execute(&b, r); err != nil {
		return fmt.Sprintf("error executing template %q: %v", reportTemplate.Name(), err)
	}
	return b.String()
}
