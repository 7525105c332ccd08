package monitor

import (
	"sync"
	"time"
)

// DefaultHistorySize is the number of balance samples retained per staker.
// At the default one-minute poll that is two hours.
const DefaultHistorySize = 120

// Sample is one balance observation.
type Sample struct {
	At      time.Time
	Balance float64
}

// History keeps a balance ring buffer per staker id for sparkline rendering.
type History struct {
	mu      sync.RWMutex
	size    int
	stakers map[string]*ringBuffer
}

// ringBuffer is a fixed-size circular buffer of samples.
type ringBuffer struct {
	data  []Sample
	head  int
	count int
	size  int
}

// NewHistory creates a new history tracker with the specified buffer size.
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{
		size:    size,
		stakers: make(map[string]*ringBuffer),
	}
}

// Push records a balance for the staker. A sample with the same timestamp
// as the newest one replaces it, so re-applying a snapshot does not add a
// point.
func (h *History) Push(id string, at time.Time, balance float64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	buf, ok := h.stakers[id]
	if !ok {
		buf = newRingBuffer(h.size)
		h.stakers[id] = buf
	}

	if last, ok := buf.last(); ok && last.At.Equal(at) {
		buf.data[(buf.head-1+buf.size)%buf.size] = Sample{At: at, Balance: balance}
		return
	}
	buf.push(Sample{At: at, Balance: balance})
}

// Balances returns up to count balances for the staker, oldest first.
func (h *History) Balances(id string, count int) []float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()

	buf, ok := h.stakers[id]
	if !ok {
		return nil
	}

	samples := buf.getLast(count)
	if samples == nil {
		return nil
	}
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Balance
	}
	return out
}

// Samples returns up to count samples for the staker, oldest first.
func (h *History) Samples(id string, count int) []Sample {
	h.mu.RLock()
	defer h.mu.RUnlock()

	buf, ok := h.stakers[id]
	if !ok {
		return nil
	}
	return buf.getLast(count)
}

// Count returns the number of samples stored for a staker.
func (h *History) Count(id string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	buf, ok := h.stakers[id]
	if !ok {
		return 0
	}
	return buf.count
}

// Clear removes all history for the specified staker.
func (h *History) Clear(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.stakers, id)
}

// ClearAll removes all history.
func (h *History) ClearAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stakers = make(map[string]*ringBuffer)
}

// newRingBuffer creates a new ring buffer with the specified capacity.
func newRingBuffer(size int) *ringBuffer {
	return &ringBuffer{
		data: make([]Sample, size),
		size: size,
	}
}

// push adds a value to the ring buffer.
func (r *ringBuffer) push(s Sample) {
	r.data[r.head] = s
	r.head = (r.head + 1) % r.size
	if r.count < r.size {
		r.count++
	}
}

func (r *ringBuffer) last() (Sample, bool) {
	if r.count == 0 {
		return Sample{}, false
	}
	return r.data[(r.head-1+r.size)%r.size], true
}

// getLast returns the last count values in chronological order (oldest first).
func (r *ringBuffer) getLast(count int) []Sample {
	if count <= 0 || r.count == 0 {
		return nil
	}

	if count > r.count {
		count = r.count
	}

	result := make([]Sample, count)

	// head points to the next write position, so the most recent value is at head-1
	start := (r.head - count + r.size) % r.size

	for i := 0; i < count; i++ {
		result[i] = r.data[(start+i)%r.size]
	}

	return result
}
