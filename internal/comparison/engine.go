package comparison

import (
	"context"
	"fmt"
	"strings"
	"time"

	"TickerCompare/internal/calculator"
	"TickerCompare/internal/collector"
	"TickerCompare/internal/model"

	log "github.com/sirupsen/logrus"
)

// DefaultWindowDays is the trailing window used when none is configured.
const DefaultWindowDays = 5 * 365

// Engine runs comparisons. It holds no per-request state.
type Engine struct {
	Collector  *collector.Collector
	WindowDays int
	Interval   model.Interval
	Now        func() time.Time
}

// NewEngine creates an Engine over the given collector.
func NewEngine(col *collector.Collector, windowDays int, interval model.Interval) *Engine {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	if interval == "" {
		interval = model.IntervalMonthly
	}
	return &Engine{Collector: col, WindowDays: windowDays, Interval: interval, Now: time.Now}
}

// NewRequest builds the request for a and b, with the window ending now.
func (e *Engine) NewRequest(a, b string) model.Request {
	end := e.Now()
	return model.Request{
		SymbolA:  strings.TrimSpace(a),
		SymbolB:  strings.TrimSpace(b),
		Start:    end.AddDate(0, 0, -e.WindowDays),
		End:      end,
		Interval: e.Interval,
	}
}

// Title returns the chart title of req.
func Title(req model.Request) string {
	days := int(req.End.Sub(req.Start).Hours()/24 + 0.5)
	span := fmt.Sprintf("%d-Day", days)
	if days >= 365 && days%365 == 0 {
		span = fmt.Sprintf("%d-Year", days/365)
	}
	return fmt.Sprintf("%s Performance Comparison: %s vs %s", span, req.SymbolA, req.SymbolB)
}

// Compare runs the whole pipeline for a and b and returns its result.
// Both identifiers are always acquired, one after the other, before anything is decided.
func (e *Engine) Compare(ctx context.Context, a, b string) *model.Comparison {
	req := e.NewRequest(a, b)
	cmp := &model.Comparison{Request: req, Title: Title(req), CreatedAt: req.End}

	if req.Blank() {
		cmp.Outcome = model.OutcomePrompt
		cmp.Message = PromptMessage
		return cmp
	}

	ra := e.Collector.Acquire(ctx, req, req.SymbolA)
	rb := e.Collector.Acquire(ctx, req, req.SymbolB)
	cmp.Checks = []model.SymbolCheck{Check(ra), Check(rb)}

	if cmp.Checks[0].Status != model.StatusValid || cmp.Checks[1].Status != model.StatusValid {
		cmp.Outcome = model.OutcomeIncomplete
		cmp.Message = WarningMessage
		return cmp
	}

	aligned, summaries, err := Analyze(ra.Series, rb.Series)
	if err != nil {
		log.WithFields(log.Fields{"a": req.SymbolA, "b": req.SymbolB}).Warnf("comparison failed: %v", err)
		cmp.Outcome = model.OutcomeFailed
		cmp.Message = fmt.Sprintf("Cannot compare %s and %s: %v", req.SymbolA, req.SymbolB, err)
		return cmp
	}

	cmp.Outcome = model.OutcomeReady
	cmp.Aligned = aligned
	cmp.Summaries = summaries
	return cmp
}

// Analyze normalizes, aligns and summarizes two price series.
func Analyze(a, b model.PriceSeries) (*model.AlignedPair, []model.PerformanceSummary, error) {
	na, err := calculator.Normalize(a)
	if err != nil {
		return nil, nil, err
	}
	nb, err := calculator.Normalize(b)
	if err != nil {
		return nil, nil, err
	}
	aligned, err := calculator.Align(na, nb)
	if err != nil {
		return nil, nil, err
	}
	sa, err := calculator.Summarize(aligned.A)
	if err != nil {
		return nil, nil, err
	}
	sb, err := calculator.Summarize(aligned.B)
	if err != nil {
		return nil, nil, err
	}
	return aligned, []model.PerformanceSummary{sa, sb}, nil
}
