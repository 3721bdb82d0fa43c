package csync

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestValue(t *testing.T) {
	t.Parallel()

	token := NewValue("")
	require.Empty(t, token.Get())

	token.Set("abc")
	require.Equal(t, "abc", token.Get())
	require.Equal(t, "abc", token.Swap("def"))
	require.Equal(t, "def", token.Get())
}

func TestValueStruct(t *testing.T) {
	t.Parallel()

	type expiry struct {
		At    time.Time
		Known bool
	}
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	v := NewValue(expiry{})
	v.Set(expiry{At: at, Known: true})
	require.Equal(t, expiry{At: at, Known: true}, v.Get())
}

func TestValueRejectsReferenceKinds(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() { NewValue(&struct{}{}) })
	require.Panics(t, func() { NewValue([]string{"admin"}) })
	require.Panics(t, func() { NewValue(map[string]int{"a": 1}) })
}

func TestValueConcurrentAccess(t *testing.T) {
	t.Parallel()

	v := NewValue(0)
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			v.Set(i)
		}()
		go func() {
			defer wg.Done()
			_ = v.Get()
		}()
	}
	wg.Wait()
	require.GreaterOrEqual(t, v.Get(), 0)
	require.Less(t, v.Get(), 50)
}
