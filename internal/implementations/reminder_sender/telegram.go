package remindersender

import (
	"context"
	"fmt"
	e "nudgebot/internal/core/domain/errors"
	"nudgebot/internal/core/domain/reminder"
	"nudgebot/internal/core/domain/user"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

// BotAPI is the part of *tgbotapi.BotAPI used for sending.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram sends reminders as bot messages to the user's chat.
type Telegram struct {
	bot     BotAPI
	limiter *rate.Limiter
}

func NewTelegram(bot BotAPI, ratePerSecond int) *Telegram {
	if bot == nil {
		panic(e.NewNilArgumentError("bot"))
	}
	if ratePerSecond <= 0 {
		panic("ratePerSecond must be positive")
	}
	return &Telegram{
		bot:     bot,
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), ratePerSecond),
	}
}

func (t *Telegram) Name() string {
	return "telegram"
}

func (t *Telegram) ResolveAddress(u user.User) (reminder.Address, bool) {
	if !u.TelegramID.IsPresent {
		return reminder.Address(""), false
	}
	return reminder.Address(strconv.FormatInt(int64(u.TelegramID.Value), 10)), true
}

func (t *Telegram) Send(ctx context.Context, to reminder.Address, text string) error {
	chatID, err := strconv.ParseInt(string(to), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid telegram chat id %q: %w", to, err)
	}
	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}
	if _, err := t.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return err
	}
	return nil
}
