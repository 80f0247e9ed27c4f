package notifier

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	log "github.com/sirupsen/logrus"
)

// CommandHandler is called with the text of every received message and
// returns the HTML reply, or "" for no reply.
type CommandHandler func(ctx context.Context, command string) string

// messageSender is the part of *bot.Bot used to reply.
type messageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// TelegramNotifier answers chat commands through the Telegram Bot API.
type TelegramNotifier struct {
	bot     *bot.Bot
	sender  messageSender
	handler CommandHandler
	Backoff time.Duration // first retry delay, doubled on every attempt
}

// NewTelegramNotifier creates a long-polling bot with optional proxy support.
func NewTelegramNotifier(botToken, proxyURL string, handler CommandHandler) (*TelegramNotifier, error) {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	n := &TelegramNotifier{handler: handler, Backoff: time.Second}

	b, err := bot.New(botToken,
		bot.WithDefaultHandler(n.handleUpdate),
		bot.WithHTTPClient(30*time.Second, &http.Client{Timeout: 35 * time.Second, Transport: transport}),
	)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	n.bot = b
	n.sender = b
	return n, nil
}

// Start polls for updates. Blocks until ctx is cancelled.
func (t *TelegramNotifier) Start(ctx context.Context) {
	log.Info("telegram polling started")
	t.bot.Start(ctx)
	log.Info("telegram polling stopped")
}

func (t *TelegramNotifier) handleUpdate(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}
	chatID := update.Message.Chat.ID
	text := strings.TrimSpace(update.Message.Text)
	log.WithField("chat", chatID).Infof("received command: %s", text)

	reply := t.handler(ctx, text)
	if reply == "" {
		return
	}
	if err := t.SendWithRetry(ctx, chatID, reply, 3); err != nil {
		log.WithField("chat", chatID).Errorf("send reply: %v", err)
	}
}

// Send sends an HTML message to chatID.
func (t *TelegramNotifier) Send(ctx context.Context, chatID int64, text string) error {
	_, err := t.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// SendWithRetry sends a message with exponential backoff retry.
func (t *TelegramNotifier) SendWithRetry(ctx context.Context, chatID int64, text string, maxRetries int) error {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		if err := t.Send(ctx, chatID, text); err != nil {
			lastErr = err
			if i == maxRetries {
				break
			}
			backoff := time.Duration(1<<uint(i)) * t.Backoff
			log.Warnf("telegram send failed (attempt %d/%d): %v, retrying in %v", i+1, maxRetries+1, err, backoff)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
				continue
			}
		}
		return nil
	}
	return fmt.Errorf("all %d retries exhausted: %w", maxRetries+1, lastErr)
}
