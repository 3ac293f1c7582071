package sinks

import (
	"context"
	"testing"

	"github.com/solita/smsforward/core"
)

func TestLoggingSinkAcceptsEverything(t *testing.T) {
	if err := (&LoggingSink{}).Deliver(context.Background(), core.SMS{Text: "hi"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
