package notify

import (
	"context"
	"fmt"
	"strings"

	"feedback-api/internal/models"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

// Notifier publishes a message about new feedback to some channel.
type Notifier interface {
	Publish(ctx context.Context, message string) error
}

// FormatFeedback renders a short human-readable summary of a submission.
func FormatFeedback(f *models.Feedback) string {
	var b strings.Builder
	b.WriteString("New feedback received\n")
	fmt.Fprintf(&b, "ID: %d\n", f.ID)
	fmt.Fprintf(&b, "Project: %s\n", f.ProjectType)
	fmt.Fprintf(&b, "Rating: %s (%d/5)\n", strings.Repeat("★", max(f.Rating, 0)), f.Rating)
	if f.Innovation != nil {
		fmt.Fprintf(&b, "Innovation: %s\n", *f.Innovation)
	}
	if f.Comments != nil {
		fmt.Fprintf(&b, "Comments: %s\n", *f.Comments)
	}
	return b.String()
}

// New returns a Resend-backed notifier when mail delivery is fully configured
// and a log notifier otherwise.
func New(apiKey, from string, to []string, log *zerolog.Logger) Notifier {
	if apiKey == "" || from == "" || len(to) == 0 {
		return NewLogNotifier(log)
	}
	return NewResendNotifier(resend.NewClient(apiKey), from, to)
}
