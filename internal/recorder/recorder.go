package recorder

import (
	"time"

	"TickerCompare/internal/model"
)

// Entry is one journaled comparison.
type Entry struct {
	ID        string
	CreatedAt time.Time
	SymbolA   string
	SymbolB   string
	StatusA   model.Status
	StatusB   model.Status
	Outcome   model.Outcome
	Message   string
	Points    int
	Ready     bool // final values below are only meaningful when true
	FinalA    float64
	FinalB    float64
	ChangeA   float64
	ChangeB   float64
}

// EntryFrom flattens a comparison into a journal entry. ID is left empty.
func EntryFrom(c *model.Comparison) Entry {
	e := Entry{
		CreatedAt: c.CreatedAt,
		SymbolA:   c.Request.SymbolA,
		SymbolB:   c.Request.SymbolB,
		Outcome:   c.Outcome,
		Message:   c.Message,
	}
	if len(c.Checks) == 2 {
		e.StatusA, e.StatusB = c.Checks[0].Status, c.Checks[1].Status
	}
	if c.Ready() && len(c.Summaries) == 2 {
		e.Ready = true
		e.Points = c.Aligned.Len()
		e.FinalA, e.ChangeA = c.Summaries[0].FinalValue, c.Summaries[0].PercentChange
		e.FinalB, e.ChangeB = c.Summaries[1].FinalValue, c.Summaries[1].PercentChange
	}
	return e
}

// Recorder journals comparison results. The journal is output only:
// nothing in the comparison pipeline reads it back.
type Recorder interface {
	RecordComparison(c *model.Comparison) error
	Recent(limit int) ([]Entry, error)
	Close() error
}
