package bus

// EventBus is an in-process pub/sub bus that gameplay code uses to announce
// what happened during a tick (goals, paddle hits, resets).
//
// Delivery is synchronous and runs in the publisher's goroutine. Handlers
// for one event type are called in the order they subscribed, so two
// processes fed the same ticks observe the same sequence. Handler errors do
// not stop delivery; they are joined and returned from Publish.
type EventBus interface {
	// Publish delivers event to every active subscriber of event.Type().
	Publish(event Event) error
	// PublishWithFilters drops the event silently if any filter rejects it.
	PublishWithFilters(event Event, filters ...EventFilter) error
	// PublishBatch publishes events in order and joins their errors.
	PublishBatch(events ...Event) error

	// Subscribe registers handler for eventType.
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	// Unsubscribe cancels sub. A nil sub is a no-op.
	Unsubscribe(sub Subscription) error

	// Subscribers counts active handlers for eventType.
	Subscribers(eventType string) int
}

// Event is an immutable message carried by the bus.
type Event interface {
	Type() string
	Source() string
	// Tick is the simulation tick the event belongs to.
	Tick() uint64
	Data() any
}

type (
	EventHandler func(event Event) error
	EventFilter  func(event Event) bool
)

// Subscription is a handle to a registered handler.
type Subscription interface {
	ID() string
	EventType() string
	IsActive() bool
	// Cancel removes the handler. Repeated calls are safe.
	Cancel() error
}
