package document

import (
	"sort"
	"sync"
	"time"
)

// Metrics collects listener hook statistics.
type Metrics struct {
	mu sync.RWMutex

	hooks map[hookKey]*HookMetrics

	totalCalls    uint64
	totalFailures uint64
	totalPanics   uint64
}

type hookKey struct {
	listener string
	hook     string
}

// HookMetrics holds statistics for one listener hook.
type HookMetrics struct {
	Listener      string
	Hook          string
	CallCount     uint64
	FailureCount  uint64
	PanicCount    uint64
	TotalDuration time.Duration
	MaxDuration   time.Duration
	LastCall      time.Time
}

// AverageDuration returns the mean duration of a call.
func (hm HookMetrics) AverageDuration() time.Duration {
	if hm.CallCount == 0 {
		return 0
	}
	return hm.TotalDuration / time.Duration(hm.CallCount)
}

// NewMetrics creates an empty collector.
func NewMetrics() *Metrics {
	return &Metrics{hooks: make(map[hookKey]*HookMetrics)}
}

func (m *Metrics) record(listener, hook string, duration time.Duration, failed, panicked bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalCalls++
	if failed {
		m.totalFailures++
	}
	if panicked {
		m.totalPanics++
	}

	key := hookKey{listener: listener, hook: hook}
	hm := m.hooks[key]
	if hm == nil {
		hm = &HookMetrics{Listener: listener, Hook: hook}
		m.hooks[key] = hm
	}
	hm.CallCount++
	hm.TotalDuration += duration
	hm.MaxDuration = max(hm.MaxDuration, duration)
	hm.LastCall = time.Now()
	if failed {
		hm.FailureCount++
	}
	if panicked {
		hm.PanicCount++
	}
}

// TotalCalls returns the number of hook calls.
func (m *Metrics) TotalCalls() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalCalls
}

// TotalFailures returns the number of failed hook calls, panics
// included.
func (m *Metrics) TotalFailures() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalFailures
}

// TotalPanics returns the number of recovered panics.
func (m *Metrics) TotalPanics() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalPanics
}

// HookStats returns a copy of the statistics for one listener hook.
func (m *Metrics) HookStats(listener, hook string) (HookMetrics, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	hm, ok := m.hooks[hookKey{listener: listener, hook: hook}]
	if !ok {
		return HookMetrics{}, false
	}
	return *hm, true
}

// SlowestHooks returns up to n hooks sorted by maximum duration.
func (m *Metrics) SlowestHooks(n int) []HookMetrics {
	m.mu.RLock()
	all := make([]HookMetrics, 0, len(m.hooks))
	for _, hm := range m.hooks {
		all = append(all, *hm)
	}
	m.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		return all[i].MaxDuration > all[j].MaxDuration
	})
	if n < len(all) {
		all = all[:n]
	}
	return all
}

// Reset clears all statistics.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = make(map[hookKey]*HookMetrics)
	m.totalCalls = 0
	m.totalFailures = 0
	m.totalPanics = 0
}
