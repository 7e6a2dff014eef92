// Package events carries content-change notifications between the admin
// write path and the caches and live feeds that depend on content.
package events

import (
	"context"
	"sync"
	"time"
)

// Kinds of content
const (
	KindService  = "service"
	KindPost     = "post"
	KindProject  = "project"
	KindCareer   = "career"
	KindHero     = "hero"
	KindSettings = "settings"
)

// Action is the kind of write that changed content
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// ContentChanged is published after every successful admin write
type ContentChanged struct {
	Kind   string    `json:"kind"`
	ID     string    `json:"id"`
	Action Action    `json:"action"`
	At     time.Time `json:"at"`
}

// Handler receives published events
type Handler func(ctx context.Context, ev ContentChanged)

// Bus distributes content-change events
type Bus interface {
	Publish(ctx context.Context, ev ContentChanged) error
	// Subscribe registers h and returns a function that removes it
	Subscribe(h Handler) (func(), error)
	Close() error
}

// LocalBus delivers events synchronously to in-process subscribers
type LocalBus struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[int]Handler
}

// NewLocalBus creates an in-process bus
func NewLocalBus() *LocalBus {
	return &LocalBus{handlers: make(map[int]Handler)}
}

func (b *LocalBus) Publish(ctx context.Context, ev ContentChanged) error {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}

	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers))
	for _, h := range b.handlers {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(ctx, ev)
	}
	return nil
}

func (b *LocalBus) Subscribe(h Handler) (func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[id] = h

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.handlers, id)
	}, nil
}

func (b *LocalBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = make(map[int]Handler)
	return nil
}
