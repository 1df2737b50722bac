// Package broadcast fans one stream of values out to any number of
// subscribers. Every subscriber owns a bounded buffer; when a subscriber falls
// behind, its oldest unread value is overwritten. Delivery is therefore
// at-most-once per slow subscriber, which suits streams of idempotent
// "current state" values such as display modes.
package broadcast

import (
	"strings"
	"sync"
	"sync/atomic"
)

const defaultCapacity = 4

// Logger records overflow diagnostics. *logging.Logger satisfies it.
type Logger interface {
	Printf(format string, args ...any)
}

// Option customizes Broadcaster construction.
type Option func(*options)

type options struct {
	capacity int
	logger   Logger
	name     string
}

// WithCapacity overrides the buffer size per subscriber.
func WithCapacity(capacity int) Option {
	return func(o *options) {
		if capacity > 0 {
			o.capacity = capacity
		}
	}
}

// WithLogger injects a logger for overflow messages.
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithName labels the stream in log lines.
func WithName(name string) Option {
	return func(o *options) {
		o.name = strings.TrimSpace(name)
	}
}

// Broadcaster publishes values of type T to every live subscription.
type Broadcaster[T any] struct {
	mu          sync.RWMutex
	subscribers map[*subscriber[T]]struct{}
	opts        options
}

// New constructs a broadcaster.
func New[T any](opts ...Option) *Broadcaster[T] {
	o := options{capacity: defaultCapacity, name: "broadcast"}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return &Broadcaster[T]{
		subscribers: map[*subscriber[T]]struct{}{},
		opts:        o,
	}
}

// Subscription is one subscriber's read cursor.
type Subscription[T any] struct {
	// Values yields published values in publish order. It is closed by Close.
	Values <-chan T
	sub    *subscriber[T]
	cancel func()
}

// Close detaches the subscription and closes Values.
func (s Subscription[T]) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}

// Dropped reports how many values were overwritten before being read.
func (s Subscription[T]) Dropped() int64 {
	if s.sub == nil {
		return 0
	}
	return s.sub.dropped.Load()
}

// Subscribe registers a new subscriber. Only values published afterwards are
// delivered.
func (b *Broadcaster[T]) Subscribe(name string) Subscription[T] {
	sub := &subscriber[T]{
		name:   strings.TrimSpace(name),
		ch:     make(chan T, b.opts.capacity),
		stream: b.opts.name,
		logger: b.opts.logger,
	}
	b.mu.Lock()
	b.subscribers[sub] = struct{}{}
	b.mu.Unlock()
	return Subscription[T]{
		Values: sub.ch,
		sub:    sub,
		cancel: func() { b.remove(sub) },
	}
}

// Publish delivers v to every subscriber without blocking.
func (b *Broadcaster[T]) Publish(v T) {
	b.mu.RLock()
	subs := make([]*subscriber[T], 0, len(b.subscribers))
	for sub := range b.subscribers {
		subs = append(subs, sub)
	}
	b.mu.RUnlock()
	for _, sub := range subs {
		sub.deliver(v)
	}
}

// Subscribers returns the number of live subscriptions.
func (b *Broadcaster[T]) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close detaches every subscriber.
func (b *Broadcaster[T]) Close() {
	b.mu.Lock()
	subs := b.subscribers
	b.subscribers = map[*subscriber[T]]struct{}{}
	b.mu.Unlock()
	for sub := range subs {
		sub.close()
	}
}

func (b *Broadcaster[T]) remove(sub *subscriber[T]) {
	b.mu.Lock()
	delete(b.subscribers, sub)
	b.mu.Unlock()
	sub.close()
}

type subscriber[T any] struct {
	name    string
	stream  string
	ch      chan T
	logger  Logger
	dropped atomic.Int64

	mu     sync.Mutex
	closed bool
}

func (s *subscriber[T]) deliver(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	for {
		select {
		case s.ch <- v:
			return
		default:
		}
		// full: overwrite the oldest unread value
		select {
		case <-s.ch:
			s.dropped.Add(1)
			if s.logger != nil {
				s.logger.Printf("%s: subscriber %q lagging, oldest value overwritten", s.stream, s.name)
			}
		default:
		}
	}
}

func (s *subscriber[T]) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}
