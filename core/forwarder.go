package core

import (
	"context"
	"log/slog"
	"time"

	"github.com/solita/smsforward/metrics"
)

// Forwarder hands each received SMS to every configured sink.
type Forwarder struct {
	sinks   []Sink
	metrics metrics.Collector
}

func NewForwarder(sinks []Sink, metrics metrics.Collector) *Forwarder {
	return &Forwarder{
		sinks:   sinks,
		metrics: metrics,
	}
}

// Forward reports whether every sink accepted the message. Failures are
// logged and counted, never returned.
func (f *Forwarder) Forward(ctx context.Context, sms SMS) bool {
	start := time.Now()
	for _, sink := range f.sinks {
		if err := sink.Deliver(ctx, sms); err != nil {
			slog.Error("Failed to forward SMS", "id", sms.Id, "error", err)
			if f.metrics != nil {
				f.metrics.ForwardError()
			}
			return false
		}
	}

	if f.metrics != nil {
		f.metrics.ForwardSuccess(time.Since(start).Milliseconds())
	}
	return true
}
