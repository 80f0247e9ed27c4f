package service

import (
	"context"
	"strings"

	"TickerCompare/internal/comparison"
	"TickerCompare/internal/model"
	"TickerCompare/internal/notifier"
	"TickerCompare/internal/recorder"

	log "github.com/sirupsen/logrus"
)

// HistoryLimit is the number of journal entries shown by /history.
const HistoryLimit = 10

// Service runs comparisons and journals their results.
type Service struct {
	Engine   *comparison.Engine
	Recorder recorder.Recorder
}

// New creates a Service. A nil recorder disables the journal.
func New(engine *comparison.Engine, rec recorder.Recorder) *Service {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Service{Engine: engine, Recorder: rec}
}

// Run compares a and b. Journal failures are logged and never change the result.
func (s *Service) Run(ctx context.Context, a, b string) *model.Comparison {
	cmp := s.Engine.Compare(ctx, a, b)
	log.WithFields(log.Fields{
		"a":       cmp.Request.SymbolA,
		"b":       cmp.Request.SymbolB,
		"outcome": cmp.Outcome,
	}).Info("comparison finished")

	if err := s.Recorder.RecordComparison(cmp); err != nil {
		log.Errorf("record comparison: %v", err)
	}
	return cmp
}

// Command is a parsed chat command.
type Command struct {
	Name string // compare, history, help, or "" when unrecognized
	Args []string
}

// ParseCommand parses chat text. "/compare A B", "A B" and "A vs B" all
// parse as compare; a bot mention suffix such as "/compare@my_bot" is ignored.
func ParseCommand(text string) Command {
	fields := strings.FieldsFunc(strings.TrimSpace(text), func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == ','
	})
	if len(fields) == 0 {
		return Command{Name: "help"}
	}

	if strings.HasPrefix(fields[0], "/") {
		name, _, _ := strings.Cut(strings.ToLower(strings.TrimPrefix(fields[0], "/")), "@")
		switch name {
		case "compare":
			return Command{Name: "compare", Args: dropVs(fields[1:])}
		case "history":
			return Command{Name: "history"}
		case "help", "start":
			return Command{Name: "help"}
		default:
			return Command{}
		}
	}
	return Command{Name: "compare", Args: dropVs(fields)}
}

func dropVs(args []string) []string {
	if len(args) == 3 && strings.EqualFold(args[1], "vs") {
		return []string{args[0], args[2]}
	}
	return args
}

// HandleCommand processes a chat command and returns the reply.
func (s *Service) HandleCommand(ctx context.Context, text string) string {
	cmd := ParseCommand(text)
	switch cmd.Name {
	case "compare":
		if len(cmd.Args) > 2 {
			return notifier.FormatHelp()
		}
		args := append(cmd.Args, "", "")
		return notifier.FormatComparison(s.Run(ctx, args[0], args[1]))
	case "history":
		entries, err := s.Recorder.Recent(HistoryLimit)
		if err != nil {
			log.Errorf("read history: %v", err)
			return "History is unavailable right now."
		}
		return notifier.FormatHistory(entries)
	case "help":
		return notifier.FormatHelp()
	default:
		return "Unknown command. Use /help to see available commands."
	}
}
