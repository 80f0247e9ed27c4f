package model

import "time"

// Status classifies the result of one acquisition attempt.
type Status string

const (
	StatusValid    Status = "VALID"
	StatusNotFound Status = "NOT_FOUND"
	StatusInvalid  Status = "INVALID"
)

// Outcome is the terminal state of a comparison request.
type Outcome string

const (
	OutcomePrompt     Outcome = "PROMPT"     // an identifier was blank, nothing ran
	OutcomeIncomplete Outcome = "INCOMPLETE" // at least one identifier had no usable data
	OutcomeFailed     Outcome = "FAILED"     // data was fetched but could not be compared
	OutcomeReady      Outcome = "READY"
)

// Request is the immutable input of one comparison.
type Request struct {
	SymbolA  string
	SymbolB  string
	Start    time.Time
	End      time.Time
	Interval Interval
}

// Blank reports whether either identifier is empty.
func (r Request) Blank() bool { return r.SymbolA == "" || r.SymbolB == "" }

// SymbolCheck is the validation result shown for one identifier.
type SymbolCheck struct {
	Symbol  string
	Status  Status
	Message string
}

// PerformanceSummary holds the derived scalars of one aligned series.
type PerformanceSummary struct {
	Symbol        string  `json:"symbol"`
	FinalValue    float64 `json:"final_value"`
	PercentChange float64 `json:"percent_change"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	MaxDrawdown   float64 `json:"max_drawdown"` // percent, zero or negative
	Points        int     `json:"points"`
}

// Comparison is the full result of one request. It is built once and never mutated.
type Comparison struct {
	Request   Request
	Outcome   Outcome
	Checks    []SymbolCheck
	Message   string // prompt, warning or failure text depending on Outcome
	Title     string
	Aligned   *AlignedPair
	Summaries []PerformanceSummary
	CreatedAt time.Time
}

// Ready reports whether the comparison has a chart and summary to present.
func (c *Comparison) Ready() bool { return c.Outcome == OutcomeReady }
