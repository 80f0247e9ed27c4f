// Package cli implements the tickercompare command line application.
package cli

import (
	"flag"
	"fmt"
	"os"

	"TickerCompare/internal/collector"
	"TickerCompare/internal/comparison"
	"TickerCompare/internal/config"
	"TickerCompare/internal/logging"
	"TickerCompare/internal/recorder"
	"TickerCompare/internal/service"

	"github.com/google/subcommands"
	log "github.com/sirupsen/logrus"
)

// Register the subcommands.
// A main package will call Register() and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&compareCmd{}, "")
	c.Register(&botCmd{}, "")
	c.Register(&historyCmd{}, "")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configPath = flag.String("config", "", "Path to the YAML config file (default $CONFIG_PATH or configs/config.yaml)")

// LoadConfig loads and validates the configuration, then sets up logging.
func LoadConfig() (*config.Config, error) {
	path := *configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = "configs/config.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	logging.Setup(cfg.LogLevel, os.Stderr)
	return cfg, nil
}

// NewFetcher returns the fetcher of the configured provider.
func NewFetcher(cfg *config.Config) (collector.Fetcher, error) {
	ds := cfg.DataSource
	switch ds.Provider {
	case config.ProviderYahoo:
		f := collector.NewYahooFetcher(cfg.Proxy, ds.SymbolAliases)
		if ds.BaseURL != "" {
			f.BaseURL = ds.BaseURL
		}
		return f, nil
	case config.ProviderEODHD:
		f := collector.NewEODHDFetcher(ds.APIKey, cfg.Proxy)
		if ds.BaseURL != "" {
			f.BaseURL = ds.BaseURL
		}
		return f, nil
	case config.ProviderBarsAPI:
		return collector.NewBarsAPIFetcher(ds.BaseURL, ds.APIKey, cfg.Proxy), nil
	case config.ProviderMock:
		return &collector.MockFetcher{Price: 100}, nil
	default:
		return nil, fmt.Errorf("unknown data provider %q", ds.Provider)
	}
}

// OpenRecorder opens the comparison journal, falling back to a no-op
// journal when no path is configured or the database cannot be opened.
func OpenRecorder(path string) recorder.Recorder {
	if path == "" {
		return recorder.NewNoopRecorder()
	}
	r, err := recorder.NewSQLiteRecorder(path)
	if err != nil {
		log.Warnf("init sqlite recorder failed, using noop: %v", err)
		return recorder.NewNoopRecorder()
	}
	return r
}

// NewService wires the configured fetcher, engine and journal.
// The caller closes the returned service's Recorder.
func NewService(cfg *config.Config) (*service.Service, error) {
	fetcher, err := NewFetcher(cfg)
	if err != nil {
		return nil, err
	}
	log.WithField("provider", fetcher.Name()).Info("data source ready")

	engine := comparison.NewEngine(collector.NewCollector(fetcher), cfg.Comparison.WindowDays, cfg.Interval())
	return service.New(engine, OpenRecorder(cfg.Database.SQLitePath)), nil
}
