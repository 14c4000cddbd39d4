// Package plugger implements an event bus of typed channels, each with an
// ordered chain of handlers that transform a value in turn.
//
// A dispatch passes the value through the handlers of a channel in
// registration order. Each handler receives the output of the previous one and
// may end the chain early by returning a stopped result. Handlers are never run
// concurrently.
package plugger

import (
	"context"
	"fmt"
	"reflect"
	"sync"
)

// Result is the outcome of a handler: a value, and whether the rest of the
// chain should be skipped.
type Result[T any] struct {
	value   T
	stopped bool
}

// Continue returns a Result that passes v on to the next handler.
func Continue[T any](v T) Result[T] { return Result[T]{value: v} }

// Stop returns a Result that ends the chain with v.
func Stop[T any](v T) Result[T] { return Result[T]{value: v, stopped: true} }

// Value returns the value carried by the result.
func (r Result[T]) Value() T { return r.value }

// Stopped returns whether the result ends the chain.
func (r Result[T]) Stopped() bool { return r.stopped }

// Handler handles one event on a channel with payload type T.
type Handler[T any] func(ctx context.Context, v T) (Result[T], error)

// Map adapts a plain transformation into a Handler that always continues.
func Map[T any](f func(T) T) Handler[T] {
	return func(_ context.Context, v T) (Result[T], error) {
		return Continue(f(v)), nil
	}
}

// Schema is the set of channels known to a Bus. Channels are declared once,
// before any Bus is created from the schema.
type Schema struct {
	shapes map[string]Shape
	types  map[string]reflect.Type
	names  []string
}

// NewSchema returns an empty Schema.
func NewSchema() *Schema {
	return &Schema{shapes: map[string]Shape{}, types: map[string]reflect.Type{}}
}

// Channel is a typed handle to a channel declared in a Schema.
type Channel[T any] struct {
	name   string
	schema *Schema
}

// Name returns the name of the channel.
func (c Channel[T]) Name() string { return c.name }

// Declare adds a channel with payload type T to the schema. It panics if the
// name is already taken or if T cannot be described by a Shape.
func Declare[T any](s *Schema, name string) Channel[T] {
	if _, dup := s.shapes[name]; dup {
		panic(fmt.Sprintf("plugger: channel %q declared twice", name))
	}
	t := reflect.TypeFor[T]()
	shape, err := ShapeOf(t)
	if err != nil {
		panic(fmt.Sprintf("plugger: channel %q: %v", name, err))
	}
	s.shapes[name] = shape
	s.types[name] = t
	s.names = append(s.names, name)
	return Channel[T]{name, s}
}

// Shape returns the shape of the named channel.
func (s *Schema) Shape(name string) (Shape, bool) {
	shape, ok := s.shapes[name]
	return shape, ok
}

// Names returns the names of all channels in declaration order.
func (s *Schema) Names() []string {
	return append([]string(nil), s.names...)
}

type listener struct {
	once bool
	// A Handler[T] for the T of the channel.
	fn any
}

// Bus holds the handler chains for the channels of a Schema.
type Bus struct {
	schema *Schema
	mutex  sync.Mutex
	chains map[string][]*listener
}

// New creates a Bus for the channels of the given schema.
func New(s *Schema) *Bus {
	return &Bus{schema: s, chains: map[string][]*listener{}}
}

// Schema returns the schema the bus was created from.
func (b *Bus) Schema() *Schema { return b.schema }

// On appends a handler to the chain of a channel. It returns a function that
// removes the handler again.
func On[T any](b *Bus, c Channel[T], h Handler[T]) (remove func()) {
	return b.add(c.name, c.schema, &listener{fn: h})
}

// Once is like On, but the handler is removed before it is first invoked.
func Once[T any](b *Bus, c Channel[T], h Handler[T]) (remove func()) {
	return b.add(c.name, c.schema, &listener{once: true, fn: h})
}

func (b *Bus) add(name string, s *Schema, l *listener) func() {
	b.checkChannel(name, s)
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.chains[name] = append(b.chains[name], l)
	return func() { b.remove(name, l) }
}

// Removes l from a chain by identity. Removing a listener twice is a no-op.
func (b *Bus) remove(name string, l *listener) bool {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	chain := b.chains[name]
	for i, m := range chain {
		if m == l {
			b.chains[name] = append(chain[:i:i], chain[i+1:]...)
			return true
		}
	}
	return false
}

func (b *Bus) checkChannel(name string, s *Schema) {
	if s != b.schema {
		panic(fmt.Sprintf("plugger: channel %q does not belong to the schema of this bus", name))
	}
}

// Len returns the number of handlers on the chain of a channel.
func Len[T any](b *Bus, c Channel[T]) int {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return len(b.chains[c.name])
}

// Dispatch passes v through the handlers of channel c in registration order
// and returns the final value. Handlers added or removed during the dispatch
// do not affect it. An error from a handler ends the dispatch and is returned
// as is, as is a cancellation of ctx observed between two handlers.
func Dispatch[T any](ctx context.Context, b *Bus, c Channel[T], v T) (T, error) {
	b.checkChannel(c.name, c.schema)
	b.mutex.Lock()
	chain := append([]*listener(nil), b.chains[c.name]...)
	b.mutex.Unlock()

	for _, l := range chain {
		if err := ctx.Err(); err != nil {
			return v, err
		}
		if l.once && !b.remove(c.name, l) {
			// Already consumed by a concurrent dispatch.
			continue
		}
		r, err := l.fn.(Handler[T])(ctx, v)
		if err != nil {
			return v, err
		}
		v = r.value
		if r.stopped {
			break
		}
	}
	return v, nil
}
