// Package connectivity reports whether the remote side is reachable and
// notifies subscribers on reachability transitions.
package connectivity

import "sync"

// Provider is the reachability capability handed to sources and workflows.
type Provider interface {
	IsReachable() bool
	// Subscribe returns a channel receiving the new reachability on every
	// transition, and a function that cancels the subscription.
	Subscribe() (<-chan bool, func())
}

// Monitor holds the current reachability. It notifies only on real
// transitions, so repeated Set calls with the same value are silent.
type Monitor struct {
	mu          sync.RWMutex
	reachable   bool
	nextID      int
	subscribers map[int]chan bool
}

func NewMonitor(reachable bool) *Monitor {
	return &Monitor{
		reachable:   reachable,
		subscribers: make(map[int]chan bool),
	}
}

func (m *Monitor) IsReachable() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.reachable
}

// Set records the current reachability and reports whether it changed.
func (m *Monitor) Set(reachable bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.reachable == reachable {
		return false
	}
	m.reachable = reachable

	for _, ch := range m.subscribers {
		publishLatest(ch, reachable)
	}
	return true
}

func (m *Monitor) Subscribe() (<-chan bool, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++

	ch := make(chan bool, 1)
	m.subscribers[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			delete(m.subscribers, id)
		})
	}
	return ch, cancel
}

// publishLatest replaces an unread value so slow readers see the newest state.
func publishLatest(ch chan bool, v bool) {
	select {
	case ch <- v:
		return
	default:
	}

	select {
	case <-ch:
	default:
	}

	select {
	case ch <- v:
	default:
	}
}
