package mail

import (
	"context"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

type sendClient interface {
	SendWithContext(ctx context.Context, email *sgmail.SGMailV3) (*rest.Response, error)
}

// SendGridSender delivers mail through the SendGrid v3 API.
type SendGridSender struct {
	client sendClient
	from   *sgmail.Email
}

// NewSendGridSender creates a sender authenticated with apiKey.
func NewSendGridSender(apiKey, from string) *SendGridSender {
	return &SendGridSender{
		client: sendgrid.NewSendClient(apiKey),
		from:   sgmail.NewEmail("", from),
	}
}

// Send implements Sender.
func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	email := sgmail.NewSingleEmail(s.from, msg.Subject, sgmail.NewEmail("", msg.To), msg.Body, "")
	resp, err := s.client.SendWithContext(ctx, email)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid send: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
