// Package netstats measures request latency and response throughput on the
// client side. It only sees when a request left and when its response
// arrived, so it works the same for every transport.
package netstats

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Timestamps and size of one request.
type StatEntry struct {
	SentAt time.Time
	RecvAt time.Time
	Bytes  int
	Delay  time.Duration
	// Bytes per second.
	TP float64
}

// Keeps pending requests and a sliding window of the most recent
// measurements.
type StatsCollector struct {
	mu      sync.Mutex
	pending map[uuid.UUID]*StatEntry
	tps     []float64
	delays  []time.Duration
	idx     int // grows forever; slot is idx % window
}

// Creates a collector averaging over the last window (>= 1) responses.
func New(window int) *StatsCollector {
	if window < 1 {
		window = 1
	}
	return &StatsCollector{
		pending: make(map[uuid.UUID]*StatEntry),
		tps:     make([]float64, window),
		delays:  make([]time.Duration, window),
	}
}

func (sc *StatsCollector) RecordSend(id uuid.UUID) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.pending[id] = &StatEntry{SentAt: time.Now()}
}

// Completes the entry of id. Unknown IDs are ignored and yield zeros.
func (sc *StatsCollector) RecordRecv(id uuid.UUID, bytes int) (delay time.Duration, tp float64) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	entry, ok := sc.pending[id]
	if !ok {
		return 0, 0
	}
	delete(sc.pending, id)

	entry.RecvAt = time.Now()
	entry.Bytes = bytes
	entry.Delay = entry.RecvAt.Sub(entry.SentAt)
	if entry.Delay > 0 {
		entry.TP = float64(bytes) / entry.Delay.Seconds()
	}

	slot := sc.idx % len(sc.tps)
	sc.tps[slot] = entry.TP
	sc.delays[slot] = entry.Delay
	sc.idx++

	return entry.Delay, entry.TP
}

// Drops a request that will never be answered.
func (sc *StatsCollector) Forget(id uuid.UUID) {
	sc.mu.Lock()
	delete(sc.pending, id)
	sc.mu.Unlock()
}

func (sc *StatsCollector) AvgThroughput() float64 {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	n := sc.filled()
	if n == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range sc.tps[:n] {
		sum += v
	}
	return sum / float64(n)
}

func (sc *StatsCollector) AvgDelay() time.Duration {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	n := sc.filled()
	if n == 0 {
		return 0
	}
	var sum time.Duration
	for _, d := range sc.delays[:n] {
		sum += d
	}
	return sum / time.Duration(n)
}

// Number of requests still waiting for a response.
func (sc *StatsCollector) Pending() int {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return len(sc.pending)
}

func (sc *StatsCollector) filled() int {
	return min(sc.idx, len(sc.tps))
}
