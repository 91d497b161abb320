package handler

import (
	"sync"

	"join/internal/service"
)

// Broadcaster wakes every open board stream when the store changes. Sends
// never block; a stream that is still rendering coalesces the wake-ups.
type Broadcaster struct {
	mu     sync.Mutex
	subs   map[chan struct{}]struct{}
	cancel func()
}

func NewBroadcaster(store *service.Store) *Broadcaster {
	b := &Broadcaster{subs: make(map[chan struct{}]struct{})}
	b.cancel = store.Subscribe(func(service.Change) { b.broadcast() })
	return b
}

func (b *Broadcaster) subscribe() (ch chan struct{}, cancel func()) {
	ch = make(chan struct{}, 1)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch, func() {
		b.mu.Lock()
		delete(b.subs, ch)
		b.mu.Unlock()
	}
}

func (b *Broadcaster) broadcast() {
	b.mu.Lock()
	for ch := range b.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	b.mu.Unlock()
}

// Close detaches from the store.
func (b *Broadcaster) Close() {
	b.cancel()
}
