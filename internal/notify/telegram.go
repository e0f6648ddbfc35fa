package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"studycloud/internal/model"
)

// Telegram pushes reminders to users who linked a Telegram chat. Users
// without a chat id are skipped, not failed.
type Telegram struct {
	api *tgbotapi.BotAPI
}

func NewTelegram(token string) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	return &Telegram{api: api}, nil
}

func (t *Telegram) Notify(ctx context.Context, user *model.User, msg Message) error {
	if user.TelegramChatID == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	out := tgbotapi.NewMessage(*user.TelegramChatID, msg.Subject+"\n"+msg.Body)
	if _, err := t.api.Send(out); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}
