// Package notify forwards API health transitions to Telegram chats.
package notify

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/zynor/internal/health"
	"github.com/UnknownOlympus/zynor/internal/i18n"
	"gopkg.in/telebot.v4"
)

// sendInterval keeps bursts under the Telegram per-bot rate limit.
const sendInterval = 100 * time.Millisecond

// Sender is the part of *telebot.Bot the notifier uses.
type Sender interface {
	Send(to telebot.Recipient, what any, opts ...any) (*telebot.Message, error)
}

// Notifier sends a Markdown alert to every configured chat when the API
// health status changes.
type Notifier struct {
	log     *slog.Logger
	sender  Sender
	chatIDs []int64
	lang    i18n.Lang
	url     string
	pause   time.Duration
}

// New creates a Notifier. url is the health endpoint shown in the alert.
func New(log *slog.Logger, sender Sender, chatIDs []int64, lang i18n.Lang, url string) *Notifier {
	return &Notifier{
		log:     log,
		sender:  sender,
		chatIDs: chatIDs,
		lang:    lang,
		url:     url,
		pause:   sendInterval,
	}
}

// NewTelegram authorizes a bot with token and returns a Notifier backed by it.
// The bot is used for sending only and never polls for updates.
func NewTelegram(log *slog.Logger, token string, chatIDs []int64, lang i18n.Lang, url string) (*Notifier, error) {
	bot, err := telebot.NewBot(telebot.Settings{
		Token: token,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Telegram bot: %w", err)
	}
	log.Info("Authorized on account", "account", bot.Me.Username)

	return New(log, bot, chatIDs, lang, url), nil
}

// HealthChanged is a health.Observer. Transitions into the checking state
// are not reported.
func (n *Notifier) HealthChanged(prev, next health.Status) {
	if next == health.StatusChecking {
		return
	}
	if len(n.chatIDs) == 0 {
		n.log.Warn("No chats configured for health alerts")
		return
	}

	message := n.Format(prev, next)
	for i, id := range n.chatIDs {
		if i > 0 && n.pause > 0 {
			time.Sleep(n.pause)
		}
		if _, err := n.sender.Send(telebot.ChatID(id), message, telebot.ModeMarkdown); err != nil {
			n.log.Error("Failed to send health alert", "chat_id", id, "error", err)
			continue
		}
		n.log.Debug("Health alert sent", "chat_id", id, "status", next)
	}
}

// Format renders the alert text for a transition.
func (n *Notifier) Format(prev, next health.Status) string {
	icon := "✅"
	if next == health.StatusDown {
		icon = "🔥"
	}

	return n.lang.Tf("alert.health", map[string]any{
		"icon": icon,
		"prev": n.statusLabel(prev),
		"next": n.statusLabel(next),
		"url":  n.url,
	})
}

func (n *Notifier) statusLabel(s health.Status) string {
	return n.lang.T("health." + string(s))
}
