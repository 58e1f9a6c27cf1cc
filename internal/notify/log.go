package notify

import (
	"context"

	"github.com/rs/zerolog"
)

// LogNotifier writes messages to the service log. It is the default when no
// mail delivery is configured.
type LogNotifier struct {
	log *zerolog.Logger
}

func NewLogNotifier(log *zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Publish(ctx context.Context, message string) error {
	n.log.Info().Str("notifier", "log").Msg(message)
	return nil
}
