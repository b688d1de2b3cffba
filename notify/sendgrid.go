package notify

import (
	"context"
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"studyload/models"
)

const senderName = "studyload reminders"

type SendGridMailer struct {
	client *sendgrid.Client
	from   *mail.Email
}

func NewSendGridMailer(apiKey, from string) *SendGridMailer {
	return &SendGridMailer{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail(senderName, from),
	}
}

func (m *SendGridMailer) Send(ctx context.Context, to models.User, subject, text, html string) error {
	message := mail.NewSingleEmail(m.from, subject, mail.NewEmail(to.Username, to.Email), text, html)
	response, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if response.StatusCode >= 300 {
		return fmt.Errorf("sendgrid: status %d: %s", response.StatusCode, response.Body)
	}
	log.Println("reminder email sent to user: ", to.Email)
	return nil
}

// LogMailer prints digests instead of sending them, for environments without
// a SendGrid key.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, to models.User, subject, text, html string) error {
	log.Printf("reminder for %s: %s\n%s", to.Email, subject, text)
	return nil
}
