package measure

import "time"

// Measure keeps one Metric per stage.
type Measure interface {
	AddMetric(name string, capacity int) Metric
	GetMetric(name string) Metric
	AllMetrics() map[string]Metric
}

// Metric collects the durations observed for a single stage.
type Metric interface {
	// AddDuration records the time spent transforming one line.
	AddDuration(elapsed time.Duration)
	// AddTransportDuration records the time spent waiting for one line from the input stage.
	AddTransportDuration(inputStageName string, elapsed time.Duration)
	AVGDuration() time.Duration
	AVGTransportDuration() map[string]*TransportInfo
	SetTotalDuration(total int64, endDuration time.Duration)
	GetTotalDuration() time.Duration
	Total() int64
	// Capacity returns the capacity of the stage output queue, 0 for a sink.
	Capacity() int
	AllTransports() map[string]*TransportInfo
}
