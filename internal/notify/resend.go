package notify

import (
	"context"
	"fmt"
	"html"

	"github.com/google/uuid"
	"github.com/resend/resend-go/v2"
)

const subject = "New feedback received"

// ResendNotifier e-mails messages through the Resend API.
type ResendNotifier struct {
	client *resend.Client
	from   string
	to     []string
}

func NewResendNotifier(client *resend.Client, from string, to []string) *ResendNotifier {
	return &ResendNotifier{
		client: client,
		from:   from,
		to:     to,
	}
}

func (n *ResendNotifier) Publish(ctx context.Context, message string) error {
	params := &resend.SendEmailRequest{
		From:    n.from,
		To:      n.to,
		Subject: subject,
		Text:    message,
		Html:    "<pre>" + html.EscapeString(message) + "</pre>",
	}
	// Each message gets its own key so a retried HTTP call is not delivered twice.
	opts := &resend.SendEmailOptions{IdempotencyKey: uuid.New().String()}

	if _, err := n.client.Emails.SendWithOptions(ctx, params, opts); err != nil {
		return fmt.Errorf("send notification email: %w", err)
	}
	return nil
}
