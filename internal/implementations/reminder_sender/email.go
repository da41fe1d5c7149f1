package remindersender

import (
	"context"
	e "nudgebot/internal/core/domain/errors"
	"nudgebot/internal/core/domain/reminder"
	"nudgebot/internal/core/domain/user"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

const charset = "UTF-8"

type SESClient interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// Email sends reminders as plain text e-mails through Amazon SES.
type Email struct {
	ses SESClient
	// This address must be verified with Amazon SES.
	sender  string
	subject string
}

func NewEmail(client SESClient, sender string, subject string) *Email {
	if client == nil {
		panic(e.NewNilArgumentError("client"))
	}
	if sender == "" {
		panic("sender must not be empty")
	}
	return &Email{ses: client, sender: sender, subject: subject}
}

// NewEmailFromConfig creates the sender with an SES client built from awsConfig.
func NewEmailFromConfig(awsConfig aws.Config, sender string, subject string) *Email {
	return NewEmail(ses.NewFromConfig(awsConfig), sender, subject)
}

func (s *Email) Name() string {
	return "email"
}

func (s *Email) ResolveAddress(u user.User) (reminder.Address, bool) {
	if !u.Email.IsPresent || u.Email.Value == "" {
		return reminder.Address(""), false
	}
	return reminder.Address(u.Email.Value), true
}

func (s *Email) Send(ctx context.Context, to reminder.Address, text string) error {
	_, err := s.ses.SendEmail(
		ctx,
		&ses.SendEmailInput{
			Source: &s.sender,
			Destination: &types.Destination{
				CcAddresses: []string{},
				ToAddresses: []string{string(to)},
			},
			Message: &types.Message{
				Subject: &types.Content{Data: aws.String(s.subject), Charset: aws.String(charset)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(text), Charset: aws.String(charset)},
				},
			},
		},
	)
	return err
}
