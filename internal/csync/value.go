// Package csync holds small synchronized containers shared between the UI
// goroutine and commands running in the background.
package csync

import (
	"fmt"
	"reflect"
	"sync"
)

// Value is a value guarded by a read/write mutex. Reference kinds are
// rejected because callers could mutate them without holding the lock.
type Value[T any] struct {
	mu sync.RWMutex
	v  T
}

// NewValue returns a Value holding v. It panics when T is a pointer, slice
// or map.
func NewValue[T any](v T) *Value[T] {
	switch k := reflect.TypeFor[T]().Kind(); k {
	case reflect.Pointer, reflect.Slice, reflect.Map:
		panic(fmt.Sprintf("csync: Value cannot hold a %s", k))
	}
	return &Value[T]{v: v}
}

func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.v
}

func (v *Value[T]) Set(nv T) {
	v.mu.Lock()
	v.v = nv
	v.mu.Unlock()
}

// Swap stores nv and returns the previous value.
func (v *Value[T]) Swap(nv T) T {
	v.mu.Lock()
	defer v.mu.Unlock()
	old := v.v
	v.v = nv
	return old
}
