// Package telegram delivers lead notifications to a Telegram chat through
// the Bot API.
package telegram

import (
	"context"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/turtacn/landing-ab/internal/domain/lead"
	"github.com/turtacn/landing-ab/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/landing-ab/pkg/errors"
)

// PlaceholderToken is the token shipped in sample configuration.  It is
// treated as unset.
const PlaceholderToken = "YOUR_BOT_TOKEN"

// BotClient is the part of *bot.Bot the notifier uses.
type BotClient interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// Config holds bot credentials.
type Config struct {
	BotToken string
	ChatID   int64
	Timeout  time.Duration
	// Location renders lead timestamps.  Nil means UTC.
	Location *time.Location
}

// Configured reports whether a real token and chat are set.
func (c Config) Configured() bool {
	token := strings.TrimSpace(c.BotToken)
	return token != "" && token != PlaceholderToken && c.ChatID != 0
}

// Notifier posts each lead as a Markdown message.
type Notifier struct {
	client BotClient
	cfg    Config
	logger logging.Logger
}

// New creates a Notifier with a real Bot API client.  It returns nil when
// the configuration is incomplete so callers can skip the channel.
func New(cfg Config, logger logging.Logger) (*Notifier, error) {
	if !cfg.Configured() {
		return nil, nil
	}
	b, err := bot.New(cfg.BotToken, bot.WithSkipGetMe())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidConfig, "create telegram bot")
	}
	return NewWithClient(b, cfg, logger), nil
}

// NewWithClient creates a Notifier over an existing client.
func NewWithClient(client BotClient, cfg Config, logger logging.Logger) *Notifier {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Notifier{client: client, cfg: cfg, logger: logger.Named("telegram")}
}

func (n *Notifier) Name() string { return "telegram" }

// Notify sends the formatted lead.
func (n *Notifier) Notify(ctx context.Context, l *lead.Lead) error {
	ctx, cancel := context.WithTimeout(ctx, n.cfg.Timeout)
	defer cancel()

	msg, err := n.client.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    n.cfg.ChatID,
		Text:      lead.FormatMessage(l, n.cfg.Location),
		ParseMode: models.ParseModeMarkdownV1,
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeExternalService, "telegram sendMessage").WithDetail(l.ID)
	}
	if msg != nil {
		n.logger.Debug("lead sent", logging.String("lead_id", l.ID), logging.Int("message_id", msg.ID))
	}
	return nil
}

//Personal.AI order the ending
