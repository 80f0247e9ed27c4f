package notifier

import (
	"fmt"
	"html"
	"strings"

	"TickerCompare/internal/model"
	"TickerCompare/internal/recorder"
	"TickerCompare/internal/render"
)

// chatChart fits a phone screen and carries no ANSI colors.
var chatChart = render.ChartOptions{Height: 10, Width: 40}

// FormatComparison formats a comparison result into a Telegram message.
func FormatComparison(cmp *model.Comparison) string {
	var b strings.Builder

	if cmp.Outcome != model.OutcomePrompt {
		b.WriteString(fmt.Sprintf("📊 <b>%s</b>\n\n", html.EscapeString(cmp.Title)))
	}
	for _, c := range cmp.Checks {
		b.WriteString(html.EscapeString(c.Message))
		b.WriteString("\n")
	}
	if cmp.Message != "" {
		if len(cmp.Checks) > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("<i>%s</i>\n", html.EscapeString(cmp.Message)))
	}
	if !cmp.Ready() {
		return b.String()
	}

	b.WriteString(fmt.Sprintf("\n<pre>%s</pre>\n", html.EscapeString(render.Chart(cmp, chatChart))))

	b.WriteString("📈 <b>Performance Summary</b>\n")
	for _, s := range cmp.Summaries {
		b.WriteString(fmt.Sprintf("\n<b>%s</b>\n", html.EscapeString(s.Symbol)))
		b.WriteString(fmt.Sprintf("  Total Return: %.1f%% (%.1f%%)\n", s.FinalValue, s.FinalValue))
		b.WriteString(fmt.Sprintf("  Final Value: %.1f (%+.1f%%)\n", s.FinalValue, s.PercentChange))
		b.WriteString(fmt.Sprintf("  High/Low: %.1f / %.1f | Max DD: %.1f%%\n", s.High, s.Low, s.MaxDrawdown))
	}
	return b.String()
}

// FormatHistory formats recent journal entries.
func FormatHistory(entries []recorder.Entry) string {
	if len(entries) == 0 {
		return "No comparisons recorded yet."
	}
	var b strings.Builder
	b.WriteString("🕘 <b>Recent comparisons</b>\n\n")
	for _, e := range entries {
		b.WriteString(fmt.Sprintf("%s  %s vs %s: ", e.CreatedAt.Format("2006-01-02 15:04"),
			html.EscapeString(e.SymbolA), html.EscapeString(e.SymbolB)))
		if e.Ready {
			b.WriteString(fmt.Sprintf("%+.1f%% / %+.1f%%\n", e.ChangeA, e.ChangeB))
		} else {
			b.WriteString(fmt.Sprintf("%s\n", e.Outcome))
		}
	}
	return b.String()
}

// FormatHelp lists the available commands.
func FormatHelp() string {
	return "Available commands:\n" +
		"• /compare &lt;A&gt; &lt;B&gt; - compare two tickers over the trailing window\n" +
		"• &lt;A&gt; &lt;B&gt; - same as /compare\n" +
		"• /history - recent comparisons\n" +
		"• /help - this message"
}
