package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"TickerCompare/internal/model"
)

// Fetcher defines the interface for fetching price histories.
type Fetcher interface {
	// FetchBars returns the bars of symbol between start and end.
	// An empty result with a nil error means the symbol resolved but has no data in range.
	FetchBars(ctx context.Context, symbol string, start, end time.Time, interval model.Interval) ([]model.OHLCV, error)
	Name() string
}

// Kind tags the underlying cause of an acquisition failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// AcquisitionError wraps any failure of a data source for one symbol.
type AcquisitionError struct {
	Provider string
	Symbol   string
	Kind     Kind
	Err      error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("%s %s (%s): %v", e.Provider, e.Symbol, e.Kind, e.Err)
}

func (e *AcquisitionError) Unwrap() error { return e.Err }

// KindOf returns the cause tag of err, KindUnknown when err is not an AcquisitionError.
func KindOf(err error) Kind {
	var ae *AcquisitionError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnknown
}

// ErrUnsupportedInterval is returned by fetchers asked for an interval they cannot serve.
var ErrUnsupportedInterval = errors.New("unsupported interval")

func fail(provider, symbol string, kind Kind, err error) error {
	return &AcquisitionError{Provider: provider, Symbol: symbol, Kind: kind, Err: err}
}

// newHTTPClient returns a client with the given proxy, if any.
func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}
