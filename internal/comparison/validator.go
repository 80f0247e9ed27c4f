package comparison

import (
	"fmt"

	"TickerCompare/internal/collector"
	"TickerCompare/internal/model"

	log "github.com/sirupsen/logrus"
)

// User-facing texts.
const (
	PromptMessage  = "Enter two valid ticker symbols (e.g., AAPL, MSFT, TSLA) to compare their performance."
	WarningMessage = "Please enter valid ticker symbols for both inputs to see the comparison chart."
)

// Classify maps an acquisition result to its validity.
// Every failure is INVALID whatever its cause.
func Classify(r collector.FetchResult) model.Status {
	switch {
	case r.Err != nil:
		return model.StatusInvalid
	case r.Series.Len() == 0:
		return model.StatusNotFound
	default:
		return model.StatusValid
	}
}

// Check classifies r and attaches the message shown to the user.
// The cause of an INVALID result is logged, never shown.
func Check(r collector.FetchResult) model.SymbolCheck {
	status := Classify(r)
	check := model.SymbolCheck{Symbol: r.Symbol, Status: status}
	switch status {
	case model.StatusValid:
		check.Message = fmt.Sprintf("✓ Valid ticker: %s", r.Symbol)
	case model.StatusNotFound:
		check.Message = fmt.Sprintf("No data found for %s. Please check the ticker symbol.", r.Symbol)
	case model.StatusInvalid:
		check.Message = fmt.Sprintf("Invalid ticker symbol: %s", r.Symbol)
		log.WithFields(log.Fields{
			"symbol": r.Symbol,
			"kind":   collector.KindOf(r.Err).String(),
		}).Warnf("acquisition failed: %v", r.Err)
	}
	return check
}
