package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"os"

	"TickerCompare/internal/model"

	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Terminal renders markdown for display in a terminal.
func Terminal(md string, wrap int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return "", fmt.Errorf("create terminal renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}

// HTML converts markdown into a standalone HTML document.
func HTML(md, title string) (string, error) {
	conv := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var body bytes.Buffer
	if err := conv.Convert([]byte(md), &body); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	var b bytes.Buffer
	fmt.Fprintf(&b, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n",
		html.EscapeString(title))
	b.Write(body.Bytes())
	b.WriteString("</body>\n</html>\n")
	return b.String(), nil
}

// jsonComparison is the export format. Missing aligned values are null.
type jsonComparison struct {
	SymbolA   string                     `json:"symbol_a"`
	SymbolB   string                     `json:"symbol_b"`
	Start     string                     `json:"start"`
	End       string                     `json:"end"`
	Outcome   model.Outcome              `json:"outcome"`
	Message   string                     `json:"message,omitempty"`
	Title     string                     `json:"title,omitempty"`
	Checks    []jsonCheck                `json:"checks,omitempty"`
	Series    []jsonPoint                `json:"series,omitempty"`
	Summaries []model.PerformanceSummary `json:"summaries,omitempty"`
}

type jsonCheck struct {
	Symbol  string       `json:"symbol"`
	Status  model.Status `json:"status"`
	Message string       `json:"message"`
}

type jsonPoint struct {
	Date string   `json:"date"`
	A    *float64 `json:"a"`
	B    *float64 `json:"b"`
}

func defined(v float64) *float64 {
	if model.IsMissing(v) {
		return nil
	}
	return &v
}

// JSON encodes the comparison in its export format.
func JSON(cmp *model.Comparison) ([]byte, error) {
	out := jsonComparison{
		SymbolA:   cmp.Request.SymbolA,
		SymbolB:   cmp.Request.SymbolB,
		Start:     cmp.Request.Start.Format(dateLayout),
		End:       cmp.Request.End.Format(dateLayout),
		Outcome:   cmp.Outcome,
		Message:   cmp.Message,
		Title:     cmp.Title,
		Summaries: cmp.Summaries,
	}
	for _, c := range cmp.Checks {
		out.Checks = append(out.Checks, jsonCheck(c))
	}
	if cmp.Ready() && cmp.Aligned != nil {
		p := cmp.Aligned
		out.Series = make([]jsonPoint, p.Len())
		for i, d := range p.Dates {
			out.Series[i] = jsonPoint{Date: d.Format(dateLayout), A: defined(p.A.Values[i]), B: defined(p.B.Values[i])}
		}
	}
	return json.MarshalIndent(out, "", "  ")
}

// WriteJSON writes the JSON export of cmp to path.
func WriteJSON(path string, cmp *model.Comparison) error {
	data, err := JSON(cmp)
	if err != nil {
		return fmt.Errorf("marshal comparison: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
