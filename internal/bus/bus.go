// Package bus decouples UI affordances from the state-mutating side: a
// click deep in a cloned row emits a typed event, and whoever registered
// for the topic reacts. Payloads are closed struct types, no free-form
// maps.
package bus

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"pinboard/internal/logging"
)

const (
	TopicPinConversation   = "pin_conversation"
	TopicUnpinConversation = "unpin_conversation"
)

type Event interface {
	Topic() string
}

type PinRequest struct {
	ConversationID string
	Title          string
}

func (PinRequest) Topic() string { return TopicPinConversation }

type UnpinRequest struct {
	ConversationID string
}

func (UnpinRequest) Topic() string { return TopicUnpinConversation }

type Handler func(Event)

type Bus struct {
	logger logging.Logger

	mu       sync.Mutex
	handlers map[string][]registration
	nextID   int
}

type registration struct {
	id int
	fn Handler
}

func New(logger logging.Logger) *Bus {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Bus{logger: logger, handlers: map[string][]registration{}}
}

// On registers fn for topic and returns the id Off needs. Multiple
// handlers may share a topic; emission order is registration order.
func (b *Bus) On(topic string, fn Handler) int {
	if topic == "" || fn == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.handlers[topic] = append(b.handlers[topic], registration{id: id, fn: fn})
	return id
}

func (b *Bus) Off(topic string, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	regs := b.handlers[topic]
	for i, reg := range regs {
		if reg.id == id {
			b.handlers[topic] = append(regs[:i], regs[i+1:]...)
			return
		}
	}
}

// Emit invokes the topic's handlers synchronously, in registration
// order, on the calling goroutine. A panicking handler is recovered and
// logged and does not starve the remaining handlers.
func (b *Bus) Emit(event Event) {
	if event == nil {
		return
	}
	b.mu.Lock()
	regs := append([]registration(nil), b.handlers[event.Topic()]...)
	b.mu.Unlock()

	for _, reg := range regs {
		b.invoke(reg.fn, event)
	}
}

func (b *Bus) invoke(fn Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("bus handler panicked",
				logging.F("topic", event.Topic()),
				logging.F("panic", fmt.Sprintf("%v", r)))
		}
	}()
	fn(event)
}

// WaitFor resolves with the next event on topic or fails when ctx
// expires. The subscription is one-shot and removed either way.
func (b *Bus) WaitFor(ctx context.Context, topic string) (Event, error) {
	if topic == "" {
		return nil, errors.New("topic is required")
	}
	ch := make(chan Event, 1)
	id := b.On(topic, func(event Event) {
		select {
		case ch <- event:
		default:
		}
	})
	defer b.Off(topic, id)

	select {
	case event := <-ch:
		return event, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Cleanup discards every registration. Used at teardown; a later Emit
// simply reaches nobody.
func (b *Bus) Cleanup() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = map[string][]registration{}
}
