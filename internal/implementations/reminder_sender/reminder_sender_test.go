package remindersender

import (
	"context"
	"errors"
	c "nudgebot/internal/core/domain/common"
	"nudgebot/internal/core/domain/reminder"
	"nudgebot/internal/core/domain/user"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"
)

type fakeBot struct {
	err  error
	sent []tgbotapi.Chattable
}

func (b *fakeBot) Send(msg tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.sent = append(b.sent, msg)
	return tgbotapi.Message{}, b.err
}

type fakeSES struct {
	err   error
	input []*ses.SendEmailInput
}

func (s *fakeSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	s.input = append(s.input, params)
	return &ses.SendEmailOutput{}, s.err
}

func TestTelegramResolveAddress(t *testing.T) {
	sender := NewTelegram(&fakeBot{}, 30)

	address, ok := sender.ResolveAddress(user.User{TelegramID: c.NewOptional(user.TelegramID(123456789), true)})
	require.True(t, ok)
	require.Equal(t, reminder.Address("123456789"), address)

	_, ok = sender.ResolveAddress(user.User{Email: c.NewOptional(c.Email("a@b.c"), true)})
	require.False(t, ok)
}

func TestTelegramSend(t *testing.T) {
	bot := &fakeBot{}
	sender := NewTelegram(bot, 30)

	err := sender.Send(context.Background(), reminder.Address("42"), "Reminder: buy milk")

	require.Nil(t, err)
	require.Len(t, bot.sent, 1)
	msg, ok := bot.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	require.Equal(t, int64(42), msg.ChatID)
	require.Equal(t, "Reminder: buy milk", msg.Text)
}

func TestTelegramSendError(t *testing.T) {
	bot := &fakeBot{err: errors.New("Forbidden: bot was blocked by the user")}
	sender := NewTelegram(bot, 30)

	err := sender.Send(context.Background(), reminder.Address("42"), "hi")
	require.ErrorIs(t, err, bot.err)

	err = sender.Send(context.Background(), reminder.Address("not a chat"), "hi")
	require.NotNil(t, err)
	require.Len(t, bot.sent, 1)
}

func TestTelegramSendCanceledContext(t *testing.T) {
	bot := &fakeBot{}
	sender := NewTelegram(bot, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.Nil(t, sender.Send(context.Background(), reminder.Address("1"), "first"))
	err := sender.Send(ctx, reminder.Address("1"), "second")

	require.NotNil(t, err)
	require.Len(t, bot.sent, 1)
}

func TestEmailResolveAddress(t *testing.T) {
	sender := NewEmail(&fakeSES{}, "bot@example.com", "Reminder")

	address, ok := sender.ResolveAddress(user.User{Email: c.NewOptional(c.NewEmail(" Bob@Example.com "), true)})
	require.True(t, ok)
	require.Equal(t, reminder.Address("bob@example.com"), address)

	_, ok = sender.ResolveAddress(user.User{})
	require.False(t, ok)
}

func TestEmailSend(t *testing.T) {
	client := &fakeSES{}
	sender := NewEmail(client, "bot@example.com", "Reminder")

	err := sender.Send(context.Background(), reminder.Address("bob@example.com"), "Time to drink water!")

	require.Nil(t, err)
	require.Len(t, client.input, 1)
	input := client.input[0]
	require.Equal(t, "bot@example.com", *input.Source)
	require.Equal(t, []string{"bob@example.com"}, input.Destination.ToAddresses)
	require.Equal(t, "Reminder", *input.Message.Subject.Data)
	require.Equal(t, "Time to drink water!", *input.Message.Body.Text.Data)
}

func TestEmailSendError(t *testing.T) {
	client := &fakeSES{err: errors.New("MessageRejected")}
	sender := NewEmail(client, "bot@example.com", "Reminder")

	err := sender.Send(context.Background(), reminder.Address("bob@example.com"), "hi")

	require.ErrorIs(t, err, client.err)
}
