package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"TickerCompare/internal/notifier"

	"github.com/google/subcommands"
	log "github.com/sirupsen/logrus"
)

type botCmd struct{}

func (*botCmd) Name() string     { return "bot" }
func (*botCmd) Synopsis() string { return "answer comparison requests on Telegram" }
func (*botCmd) Usage() string {
	return `bot

  Long-polls Telegram and answers /compare, /history and /help until interrupted.
  Requires telegram.bot_token or TELEGRAM_BOT_TOKEN.
`
}

func (*botCmd) SetFlags(*flag.FlagSet) {}

func (*botCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := LoadConfig()
	if err == nil && cfg.Telegram.BotToken == "" {
		err = errors.New("telegram.bot_token is required")
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	svc, err := NewService(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer svc.Recorder.Close()

	tn, err := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Proxy, svc.HandleCommand)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	log.Info("TickerCompare bot is running. Press Ctrl+C to stop.")
	tn.Start(ctx)
	return subcommands.ExitSuccess
}
