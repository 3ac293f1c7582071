package sinks

import (
	"context"
	"log/slog"

	"github.com/solita/smsforward/core"
)

type LoggingSink struct{}

func (s *LoggingSink) Deliver(ctx context.Context, sms core.SMS) error {
	slog.Info("Received message", "data", sms)
	return nil
}

var _ core.Sink = (*LoggingSink)(nil)
