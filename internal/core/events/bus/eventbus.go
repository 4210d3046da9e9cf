package bus

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

var (
	ErrNilHandler   = errors.New("nil event handler")
	ErrEmptyType    = errors.New("empty event type")
	ErrHandlerPanic = errors.New("event handler panicked")
)

type simpleEvent struct {
	typeStr string
	source  string
	tick    uint64
	data    any
}

func (e simpleEvent) Type() string   { return e.typeStr }
func (e simpleEvent) Source() string { return e.source }
func (e simpleEvent) Tick() uint64   { return e.tick }
func (e simpleEvent) Data() any      { return e.data }

// NewEvent creates a basic Event.
func NewEvent(typ, src string, tick uint64, data any) Event {
	return simpleEvent{typeStr: typ, source: src, tick: tick, data: data}
}

type subscription struct {
	id        string
	eventType string
	handler   EventHandler
	active    atomic.Bool
	cancel    func()
}

func (s *subscription) ID() string        { return s.id }
func (s *subscription) EventType() string { return s.eventType }
func (s *subscription) IsActive() bool    { return s.active.Load() }
func (s *subscription) Cancel() error {
	if s.active.CompareAndSwap(true, false) && s.cancel != nil {
		s.cancel()
	}
	return nil
}

type inMemoryBus struct {
	mu sync.RWMutex
	// eventType -> subscriptions in subscribe order
	handlers map[string][]*subscription
}

// New creates an empty bus.
func New() EventBus {
	return &inMemoryBus{handlers: make(map[string][]*subscription)}
}

func (b *inMemoryBus) Publish(event Event) error {
	b.mu.RLock()
	subs := slices.Clone(b.handlers[event.Type()])
	b.mu.RUnlock()

	var errs []error
	for _, s := range subs {
		if !s.IsActive() {
			continue
		}
		if err := call(s, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (b *inMemoryBus) PublishWithFilters(event Event, filters ...EventFilter) error {
	for _, f := range filters {
		if !f(event) {
			return nil
		}
	}
	return b.Publish(event)
}

func (b *inMemoryBus) PublishBatch(events ...Event) error {
	var errs []error
	for _, e := range events {
		if err := b.Publish(e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (b *inMemoryBus) Subscribe(eventType string, handler EventHandler) (Subscription, error) {
	if eventType == "" {
		return nil, ErrEmptyType
	}
	if handler == nil {
		return nil, fmt.Errorf("%s: %w", eventType, ErrNilHandler)
	}

	s := &subscription{id: uuid.NewString(), eventType: eventType, handler: handler}
	s.active.Store(true)
	s.cancel = func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.handlers[eventType] = slices.DeleteFunc(b.handlers[eventType], func(o *subscription) bool {
			return o.id == s.id
		})
		if len(b.handlers[eventType]) == 0 {
			delete(b.handlers, eventType)
		}
	}

	b.mu.Lock()
	b.handlers[eventType] = append(b.handlers[eventType], s)
	b.mu.Unlock()
	return s, nil
}

func (b *inMemoryBus) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return nil
	}
	return sub.Cancel()
}

func (b *inMemoryBus) Subscribers(eventType string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventType])
}

func call(s *subscription, event Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s subscriber %s: %w: %v", event.Type(), s.id, ErrHandlerPanic, r)
		}
	}()
	return s.handler(event)
}
