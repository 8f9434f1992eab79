package events

import (
	"reflect"
	"sync"

	"go.uber.org/zap"
)

type subscriber struct {
	id uint64
	fn func(any)
}

// Bus is a synchronous, type-keyed publish/subscribe hub. Handlers run on
// the publisher's goroutine; a panicking handler is logged and skipped.
type Bus struct {
	log *zap.Logger

	mu     sync.RWMutex
	nextID uint64
	subs   map[reflect.Type][]subscriber
}

func NewBus(log *zap.Logger) *Bus {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bus{log: log, subs: map[reflect.Type][]subscriber{}}
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem() // *T -> T without dereferencing nil
}

// Subscribe registers fn for events of type T. The returned func removes it
// and is safe to call more than once.
func Subscribe[T any](b *Bus, fn func(T)) func() {
	key := typeOf[T]()
	wrapped := func(v any) {
		if ev, ok := v.(T); ok {
			fn(ev)
		}
	}

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[key] = append(b.subs[key], subscriber{id: id, fn: wrapped})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		ss := b.subs[key]
		for i, s := range ss {
			if s.id == id {
				b.subs[key] = append(ss[:i:i], ss[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers ev to every current subscriber of T.
func Publish[T any](b *Bus, ev T) {
	key := typeOf[T]()
	b.mu.RLock()
	ss := append([]subscriber(nil), b.subs[key]...)
	b.mu.RUnlock()

	for _, s := range ss {
		func() {
			defer func() {
				if r := recover(); r != nil {
					b.log.Error("events: subscriber panic",
						zap.String("event", key.String()),
						zap.Any("recovered", r),
					)
				}
			}()
			s.fn(ev)
		}()
	}
}

// Count reports how many subscribers T has.
func Count[T any](b *Bus) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[typeOf[T]()])
}
