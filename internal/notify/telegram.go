package notify

import (
	"fmt"
	"strings"
	"sync"

	"github.com/cenkalti/backoff/v4"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/SetupAnalyzer/internal/model"
	"github.com/Alias1177/SetupAnalyzer/internal/trading/risk"
)

const defaultMaxRetries = 3

// Sender is the subset of *tgbotapi.BotAPI used for delivery.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier posts buy/sell setups to a single chat
type TelegramNotifier struct {
	sender     Sender
	chatID     int64
	newBackOff func() backoff.BackOff
	logger     zerolog.Logger
	wg         sync.WaitGroup
}

// NewTelegramNotifier connects to the Bot API with token.
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("initializing telegram bot: %w", err)
	}
	return NewWithSender(bot, chatID), nil
}

// NewWithSender builds a notifier around an existing sender.
func NewWithSender(sender Sender, chatID int64) *TelegramNotifier {
	return &TelegramNotifier{
		sender: sender,
		chatID: chatID,
		newBackOff: func() backoff.BackOff {
			return backoff.WithMaxRetries(backoff.NewExponentialBackOff(), defaultMaxRetries)
		},
		logger: log.With().Str("component", "telegram_notifier").Logger(),
	}
}

// Notify delivers the setup in the background. NoTrade analyses are ignored.
func (t *TelegramNotifier) Notify(a model.Analysis) {
	if a.Signal == model.SignalNoTrade {
		return
	}

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		if err := t.send(a); err != nil {
			t.logger.Error().Err(err).Str("symbol", a.Symbol).Str("signal", string(a.Signal)).Msg("Failed to deliver signal")
			return
		}
		t.logger.Debug().Str("symbol", a.Symbol).Str("signal", string(a.Signal)).Msg("Signal delivered")
	}()
}

// Wait blocks until in-flight deliveries finish.
func (t *TelegramNotifier) Wait() {
	t.wg.Wait()
}

func (t *TelegramNotifier) send(a model.Analysis) error {
	msg := tgbotapi.NewMessage(t.chatID, FormatMessage(a))
	msg.ParseMode = tgbotapi.ModeMarkdown

	operation := func() error {
		_, err := t.sender.Send(msg)
		return err
	}
	return backoff.Retry(operation, t.newBackOff())
}

// FormatMessage renders an analysis as a Markdown chat message.
func FormatMessage(a model.Analysis) string {
	icon := "📈"
	if a.Signal == model.SignalSell {
		icon = "📉"
	}

	levels := risk.FixedLevels(a.Close)
	var b strings.Builder
	fmt.Fprintf(&b, "%s *%s* %s (%s)\n", icon, a.Signal, a.Symbol, a.Interval)
	fmt.Fprintf(&b, "Entry: %s\n", levels.Entry.StringFixed(2))
	fmt.Fprintf(&b, "RSI: %.2f | EMA: %.2f\n", a.RSI, a.EMA)
	fmt.Fprintf(&b, "SL: %s | TP: %s | R:R %.1f",
		levels.StopLoss.StringFixed(2), levels.TakeProfit.StringFixed(2), levels.RiskRewardRatio())
	return b.String()
}
