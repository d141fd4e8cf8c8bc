package event

import (
	"reflect"
	"sync"
)

// Bus is a double-buffered event bus. Events emitted in cycle N are readable
// in cycle N+1. SwapBuffers() is called at cycle start by EventSystem.
//
// Event types are delivered in first-seen order so that handler side effects
// happen in the same order on every run.
type Bus struct {
	mu       sync.Mutex // only protects handler registration
	front    map[reflect.Type][]any
	back     map[reflect.Type][]any
	handlers map[reflect.Type][]any
	order    []reflect.Type
}

func NewBus() *Bus {
	return &Bus{
		front:    make(map[reflect.Type][]any),
		back:     make(map[reflect.Type][]any),
		handlers: make(map[reflect.Type][]any),
	}
}

// Emit queues an event into the back buffer (will be readable next cycle).
func Emit[T any](b *Bus, event T) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if _, seen := b.back[t]; !seen {
		if _, known := b.front[t]; !known {
			b.order = append(b.order, t)
		}
	}
	b.back[t] = append(b.back[t], event)
}

// Subscribe registers a typed handler for events of type T.
func Subscribe[T any](b *Bus, fn func(T)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := reflect.TypeOf((*T)(nil)).Elem()
	b.handlers[t] = append(b.handlers[t], fn)
}

// SwapBuffers rotates back→front and clears the new back buffer.
func (b *Bus) SwapBuffers() {
	b.front, b.back = b.back, b.front
	for k := range b.back {
		b.back[k] = b.back[k][:0]
	}
}

// Pending returns how many events of type T sit in the front buffer.
func Pending[T any](b *Bus) int {
	t := reflect.TypeOf((*T)(nil)).Elem()
	return len(b.front[t])
}

// DispatchAll delivers all front-buffer events to their subscribed handlers.
func (b *Bus) DispatchAll() {
	for _, t := range b.order {
		events := b.front[t]
		handlers := b.handlers[t]
		for _, ev := range events {
			for _, h := range handlers {
				callHandler(h, ev)
			}
		}
	}
}

func callHandler(handler any, event any) {
	reflect.ValueOf(handler).Call([]reflect.Value{reflect.ValueOf(event)})
}
