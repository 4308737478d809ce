// Package mail delivers out-of-band messages such as signup confirmation codes.
package mail

import (
	"context"
	"fmt"
)

// Message is a plain-text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ConfirmationMessage builds the email carrying a signup confirmation code.
func ConfirmationMessage(to, username, code string) Message {
	return Message{
		To:      to,
		Subject: "Your confirmation code",
		Body: fmt.Sprintf(
			"Hello, %s!\n\nYour confirmation code: %s\nExchange it for an access token at POST /api/v1/auth/token.\n",
			username, code,
		),
	}
}
