package netstats_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"threadsched/src/client/netstats"
)

// Test if a send/receive pair yields a measurement and clears the pending entry.
func TestStatsCollector_Roundtrip(t *testing.T) {
	sc := netstats.New(4)
	id := uuid.New()

	sc.RecordSend(id)
	assert.Equal(t, 1, sc.Pending())

	delay, _ := sc.RecordRecv(id, 100)
	assert.GreaterOrEqual(t, delay.Nanoseconds(), int64(0))
	assert.Equal(t, 0, sc.Pending())
	assert.Equal(t, delay, sc.AvgDelay())
}

// Test if unknown and forgotten IDs are ignored.
func TestStatsCollector_Unknown(t *testing.T) {
	sc := netstats.New(0)

	delay, tp := sc.RecordRecv(uuid.New(), 10)
	assert.Zero(t, delay)
	assert.Zero(t, tp)

	id := uuid.New()
	sc.RecordSend(id)
	sc.Forget(id)
	assert.Equal(t, 0, sc.Pending())

	assert.Zero(t, sc.AvgThroughput())
	assert.Zero(t, sc.AvgDelay())
}
