package memory

import "sync"

// ManualTimeline is a ports.Timeline whose clock only moves when told to.
type ManualTimeline struct {
	mu  sync.RWMutex
	now float64
}

// NewManualTimeline creates a timeline starting at t.
func NewManualTimeline(t float64) *ManualTimeline {
	return &ManualTimeline{now: t}
}

func (m *ManualTimeline) CurrentTime() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now
}

// Set moves the clock to t.
func (m *ManualTimeline) Set(t float64) {
	m.mu.Lock()
	m.now = t
	m.mu.Unlock()
}

// Advance moves the clock forward by dt and returns the new time.
func (m *ManualTimeline) Advance(dt float64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now += dt
	return m.now
}
