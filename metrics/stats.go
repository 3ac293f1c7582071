package metrics

import (
	"expvar"
	"sync/atomic"
)

// StatsCollector keeps in-process counters and publishes them via expvar.
type StatsCollector struct {
	success   atomic.Int64
	failure   atomic.Int64
	latencyMs atomic.Int64
}

// NewStatsCollector registers an expvar entry named "<name>_stats". Names must
// be unique within the process.
func NewStatsCollector(name string) *StatsCollector {
	if name == "" {
		name = "forward"
	}
	c := &StatsCollector{}
	expvar.Publish(name+"_stats", expvar.Func(func() any {
		return c.Snapshot()
	}))
	return c
}

func (c *StatsCollector) ForwardError() {
	c.failure.Add(1)
}

func (c *StatsCollector) ForwardSuccess(timeMs int64) {
	c.success.Add(1)
	c.latencyMs.Add(timeMs)
}

func (c *StatsCollector) Snapshot() map[string]int64 {
	return map[string]int64{
		"forward_success":    c.success.Load(),
		"forward_failure":    c.failure.Load(),
		"forward_latency_ms": c.latencyMs.Load(),
	}
}

var _ Collector = (*StatsCollector)(nil)
