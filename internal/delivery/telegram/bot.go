package telegram

import (
	"context"
	"fmt"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/adiwinata/gudangbot/internal/config"
	"github.com/adiwinata/gudangbot/internal/service/conversation"
	"github.com/adiwinata/gudangbot/pkg/clients/qrscan"
)

const (
	pollTimeoutSeconds = 60
	handleTimeout      = 30 * time.Second
)

// Bot adapts Telegram long polling onto the conversation dispatcher. Every
// inbound text, callback selection or QR photo becomes one dispatcher input;
// the dispatcher's reply options become inline keyboard buttons.
type Bot struct {
	api        *tgbotapi.BotAPI
	dispatcher *conversation.Service
	scanner    qrscan.Scanner
	logger     *zap.Logger
}

// New creates the bot against the Telegram API. Scanner may be nil, which
// disables photo input.
func New(cfg config.TelegramConfig, dispatcher *conversation.Service, scanner qrscan.Scanner, logger *zap.Logger) (*Bot, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	return &Bot{
		api:        api,
		dispatcher: dispatcher,
		scanner:    scanner,
		logger:     logger,
	}, nil
}

// Username returns the bot account name reported by Telegram.
func (b *Bot) Username() string {
	return b.api.Self.UserName
}

// Start runs the long-polling loop until the context is cancelled. Updates
// are handled in their own goroutines so one user's blocking sheet call
// never stalls another user's conversation.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeoutSeconds
	updates := b.api.GetUpdatesChan(u)

	b.logger.Info("telegram polling started", zap.String("username", b.Username()))

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update := <-updates:
			if update.CallbackQuery != nil {
				go b.handleCallback(ctx, update.CallbackQuery)
				continue
			}
			if update.Message == nil {
				continue
			}
			go b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.From == nil {
		return
	}

	userID := strconv.FormatInt(message.From.ID, 10)
	chatID := message.Chat.ID
	text := message.Text

	if len(message.Photo) > 0 {
		decoded, notice := b.photoInput(ctx, message)
		if notice != "" {
			b.send(chatID, conversation.Reply{Text: notice})
			return
		}
		text = decoded
	}

	handleCtx, cancel := context.WithTimeout(ctx, handleTimeout)
	defer cancel()

	reply := b.dispatcher.HandleMessage(handleCtx, userID, text)
	b.send(chatID, reply)
}

// handleCallback treats the callback data as the user's next input, exactly
// like typed text, and strips the keyboard from the pressed message.
func (b *Bot) handleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		b.logger.Debug("callback ack failed", zap.Error(err))
	}

	if callback.Message == nil || callback.From == nil {
		return
	}

	userID := strconv.FormatInt(callback.From.ID, 10)
	chatID := callback.Message.Chat.ID

	edit := tgbotapi.NewEditMessageText(chatID, callback.Message.MessageID,
		callback.Message.Text+"\n➡️ "+callback.Data)
	if _, err := b.api.Send(edit); err != nil {
		b.logger.Debug("callback message edit failed", zap.Error(err))
	}

	handleCtx, cancel := context.WithTimeout(ctx, handleTimeout)
	defer cancel()

	reply := b.dispatcher.HandleMessage(handleCtx, userID, callback.Data)
	b.send(chatID, reply)
}

// photoInput turns a photo message into dispatcher input, or returns the
// user-facing notice explaining why it could not.
func (b *Bot) photoInput(ctx context.Context, message *tgbotapi.Message) (string, string) {
	if b.scanner == nil {
		return "", "Input foto tidak aktif. Ketik PartID/Nama Barang."
	}

	decoded, ok := b.decodePhoto(ctx, message)
	if !ok {
		return "", "QR tidak terbaca. Foto ulang atau ketik PartID/Nama."
	}
	return decoded, ""
}

func (b *Bot) decodePhoto(ctx context.Context, message *tgbotapi.Message) (string, bool) {
	// Last entry is the largest resolution Telegram provides.
	photo := message.Photo[len(message.Photo)-1]
	fileURL, err := b.api.GetFileDirectURL(photo.FileID)
	if err != nil {
		b.logger.Warn("photo file url lookup failed", zap.Error(err))
		return "", false
	}

	decodeCtx, cancel := context.WithTimeout(ctx, handleTimeout)
	defer cancel()

	text, err := b.scanner.Decode(decodeCtx, fileURL)
	if err != nil {
		b.logger.Warn("qr decode failed", zap.Error(err))
		return "", false
	}
	return text, true
}

func (b *Bot) send(chatID int64, reply conversation.Reply) {
	if reply.Text == "" {
		return
	}

	msg := tgbotapi.NewMessage(chatID, reply.Text)
	if len(reply.Options) > 0 {
		rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(reply.Options))
		for _, opt := range reply.Options {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(opt.Label, opt.Value)))
		}
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	}

	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("failed to send telegram message", zap.Error(err), zap.Int64("chat_id", chatID))
	}
}
