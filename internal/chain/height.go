// Package chain provides block-height sources for timestamping registry
// records. The registry consumes heights verbatim and never interprets them.
package chain

import (
	"sync"
	"time"
)

// IntervalSource derives a monotonically non-decreasing height from wall
// time: one height unit per block interval since genesis.
type IntervalSource struct {
	genesis   time.Time
	blockTime time.Duration
}

func NewIntervalSource(genesis time.Time, blockTime time.Duration) *IntervalSource {
	if blockTime <= 0 {
		blockTime = 10 * time.Minute
	}
	return &IntervalSource{genesis: genesis, blockTime: blockTime}
}

func (s *IntervalSource) CurrentHeight() uint64 {
	elapsed := time.Since(s.genesis)
	if elapsed < 0 {
		return 0
	}
	return uint64(elapsed / s.blockTime)
}

// Manual is a hand-advanced height source for tests.
type Manual struct {
	mu     sync.Mutex
	height uint64
}

func NewManual(height uint64) *Manual {
	return &Manual{height: height}
}

func (m *Manual) CurrentHeight() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.height
}

// Advance moves the height forward by n blocks.
func (m *Manual) Advance(n uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.height += n
}
