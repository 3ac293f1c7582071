package core

import (
	"context"
	"errors"
	"testing"
)

type fakeSink struct {
	err       error
	delivered []SMS
}

func (s *fakeSink) Deliver(ctx context.Context, sms SMS) error {
	s.delivered = append(s.delivered, sms)
	return s.err
}

type fakeCollector struct {
	errors    int
	successes int
}

func (c *fakeCollector) ForwardError() { c.errors++ }
func (c *fakeCollector) ForwardSuccess(ms int64) { c.successes++ }

func TestForwarderSuccess(t *testing.T) {
	a, b := &fakeSink{}, &fakeSink{}
	collector := &fakeCollector{}
	f := NewForwarder([]Sink{a, b}, collector)

	if !f.Forward(context.Background(), SMS{Id: "1", Text: "hi"}) {
		t.Fatalf("expected forward to succeed")
	}
	if len(a.delivered) != 1 || len(b.delivered) != 1 {
		t.Fatalf("expected every sink to receive the message: a=%d b=%d", len(a.delivered), len(b.delivered))
	}
	if collector.successes != 1 || collector.errors != 0 {
		t.Fatalf("unexpected metrics: %+v", collector)
	}
}

func TestForwarderFailureIsReportedAsFalse(t *testing.T) {
	failing := &fakeSink{err: errors.New("connection refused")}
	after := &fakeSink{}
	collector := &fakeCollector{}
	f := NewForwarder([]Sink{failing, after}, collector)

	if f.Forward(context.Background(), SMS{Id: "1"}) {
		t.Fatalf("expected forward to fail")
	}
	if len(after.delivered) != 0 {
		t.Fatalf("sinks after a failure should not run")
	}
	if collector.errors != 1 || collector.successes != 0 {
		t.Fatalf("unexpected metrics: %+v", collector)
	}
}

func TestForwarderWithoutMetrics(t *testing.T) {
	f := NewForwarder([]Sink{&fakeSink{err: errors.New("boom")}}, nil)
	if f.Forward(context.Background(), SMS{}) {
		t.Fatalf("expected forward to fail")
	}
}
