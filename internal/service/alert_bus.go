package service

import (
	"sync"

	"github.com/arturoeanton/campus-wellness-api/internal/domain"
)

// AlertBus fans counselor alerts out to live subscribers (SSE streams).
// Slow subscribers miss alerts rather than block the publisher; the alert
// list endpoint stays the source of truth.
type AlertBus struct {
	mu   sync.RWMutex
	subs map[chan domain.CounselorAlert]struct{}
}

// NewAlertBus creates an empty bus.
func NewAlertBus() *AlertBus {
	return &AlertBus{subs: make(map[chan domain.CounselorAlert]struct{})}
}

// Publish delivers alert to every subscriber that has room.
func (b *AlertBus) Publish(alert domain.CounselorAlert) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs {
		select {
		case ch <- alert:
		default:
		}
	}
}

// Subscribe returns a channel that receives new alerts.
func (b *AlertBus) Subscribe() chan domain.CounselorAlert {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan domain.CounselorAlert, 10)
	b.subs[ch] = struct{}{}
	return ch
}

// Unsubscribe removes and closes ch.
func (b *AlertBus) Unsubscribe(ch chan domain.CounselorAlert) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
}

// Subscribers reports how many streams are attached.
func (b *AlertBus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
