// Package telegram delivers the composed digest to a chat. Failures are
// surfaced to the invoker; the core never retries delivery.
package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// chartFileName is the attachment name of the rendered trend chart.
const chartFileName = "plot.png"

// defaultSendTimeout bounds each Bot API call.
const defaultSendTimeout = 30 * time.Second

// Notifier sends text and photo messages to one recipient chat.
type Notifier struct {
	bot         *tgbotapi.BotAPI
	chatID      int64
	sendTimeout time.Duration
}

// Option applies a configuration option to the Notifier.
type Option func(*Notifier)

// WithSendTimeout bounds each outbound API call.
func WithSendTimeout(d time.Duration) Option {
	return func(n *Notifier) {
		if d > 0 {
			n.sendTimeout = d
		}
	}
}

// New builds a Notifier for the given bot credential and recipient chat id.
func New(token, chatID string, opts ...Option) (*Notifier, error) {
	n := &Notifier{sendTimeout: defaultSendTimeout}
	for _, opt := range opts {
		opt(n)
	}

	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: chat id %q", ErrBadRecipient, chatID)
	}
	n.chatID = id

	client := &http.Client{Timeout: n.sendTimeout}
	bot, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInit, err)
	}
	n.bot = bot
	return n, nil
}

// SendText delivers a text-only message.
func (n *Notifier) SendText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrDeliver, err)
	}
	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("%w: %v", ErrDeliver, err)
	}
	return nil
}

// SendPhoto delivers the rendered chart with the digest as its caption.
func (n *Notifier) SendPhoto(ctx context.Context, caption string, png []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrDeliver, err)
	}
	photo := tgbotapi.NewPhoto(n.chatID, tgbotapi.FileBytes{Name: chartFileName, Bytes: png})
	photo.Caption = caption
	if _, err := n.bot.Send(photo); err != nil {
		return fmt.Errorf("%w: %v", ErrDeliver, err)
	}
	return nil
}
