package measure

import (
	"sync"
	"time"
)

// TransportInfo is the time spent waiting on an input queue.
type TransportInfo struct {
	Elapsed time.Duration
	total   int64
}

// DefaultMetric is the Metric of DefaultMeasure.
type DefaultMetric struct {
	allTransports map[string]*TransportInfo
	mu            *sync.Mutex
	EndDuration   time.Duration
	stepElapsed   time.Duration
	stepTotal     int64
	total         int64
	capacity      int
}

func (mt *DefaultMetric) AddDuration(elapsed time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.stepTotal++
	mt.stepElapsed += elapsed
}

func (mt *DefaultMetric) SetTotalDuration(total int64, endDuration time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.total = total
	mt.EndDuration = endDuration
}

func (mt *DefaultMetric) GetTotalDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.EndDuration
}

// Total returns the number of lines the stage handled, as reported when it finished.
func (mt *DefaultMetric) Total() int64 {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.total
}

func (mt *DefaultMetric) Capacity() int {
	return mt.capacity
}

func (mt *DefaultMetric) AddTransportDuration(inputStageName string, elapsed time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	if mt.allTransports[inputStageName] == nil {
		mt.allTransports[inputStageName] = &TransportInfo{}
	}

	ch := mt.allTransports[inputStageName]
	ch.Elapsed += elapsed
	ch.total++
}

func (mt *DefaultMetric) AVGDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	if mt.stepTotal == 0 {
		return time.Duration(0)
	}

	return round(time.Duration(float64(mt.stepElapsed) / float64(mt.stepTotal)))
}

// AVGTransportDuration returns the average wait per input stage. The stored sums are left untouched.
func (mt *DefaultMetric) AVGTransportDuration() map[string]*TransportInfo {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	res := make(map[string]*TransportInfo, len(mt.allTransports))

	for name, ch := range mt.allTransports {
		avg := &TransportInfo{total: ch.total}
		if ch.total > 0 {
			avg.Elapsed = round(time.Duration(float64(ch.Elapsed) / float64(ch.total)))
		}

		res[name] = avg
	}

	return res
}

func (mt *DefaultMetric) AllTransports() map[string]*TransportInfo {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	res := make(map[string]*TransportInfo, len(mt.allTransports))
	for name, ch := range mt.allTransports {
		res[name] = &TransportInfo{Elapsed: ch.Elapsed, total: ch.total}
	}

	return res
}

func round(d time.Duration) time.Duration {
	switch {
	case d > time.Hour:
		d = d.Round(time.Hour)
	case d > time.Minute:
		d = d.Round(time.Minute)
	case d > time.Second:
		d = d.Round(time.Second)
	case d > time.Millisecond:
		d = d.Round(time.Millisecond)
	case d > time.Microsecond:
		d = d.Round(time.Microsecond)
	}

	return d
}
