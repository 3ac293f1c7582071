package metrics

type Collector interface {
	// Add one failed forward to metrics
	ForwardError()
	// Add one successful forward, and if supported, its duration to another metric
	ForwardSuccess(timeMs int64)
}

// Fanout reports to every collector it holds.
type Fanout []Collector

func (f Fanout) ForwardError() {
	for _, c := range f {
		c.ForwardError()
	}
}

func (f Fanout) ForwardSuccess(timeMs int64) {
	for _, c := range f {
		c.ForwardSuccess(timeMs)
	}
}

var _ Collector = Fanout(nil)
