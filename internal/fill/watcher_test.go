// internal/fill/watcher_test.go
package fill_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hfadhel/tawseel-cli/internal/dom"
	"github.com/hfadhel/tawseel-cli/internal/fill"
)

func TestWatch(t *testing.T) {
	t.Run("should fire when the candidate count changes", func(t *testing.T) {
		var mu sync.Mutex
		count := 1
		discover := func() []*dom.Field {
			mu.Lock()
			defer mu.Unlock()
			return make([]*dom.Field, count)
		}

		changes := make(chan int, 4)
		stop := fill.Watch(discover, 5*time.Millisecond, func(fields []*dom.Field) {
			changes <- len(fields)
		}, nil)
		defer stop()

		mu.Lock()
		count = 3
		mu.Unlock()

		select {
		case n := <-changes:
			assert.Equal(t, 3, n)
		case <-time.After(2 * time.Second):
			t.Fatal("watcher never reported the change")
		}
	})

	t.Run("should stay quiet while the count is stable", func(t *testing.T) {
		discover := func() []*dom.Field { return make([]*dom.Field, 2) }

		fired := make(chan struct{}, 1)
		stop := fill.Watch(discover, 5*time.Millisecond, func([]*dom.Field) {
			select {
			case fired <- struct{}{}:
			default:
			}
		}, nil)

		time.Sleep(50 * time.Millisecond)
		stop()

		select {
		case <-fired:
			t.Fatal("onChange fired without a count change")
		default:
		}
	})

	t.Run("stop is idempotent and halts observation", func(t *testing.T) {
		discover := func() []*dom.Field { return nil }
		stop := fill.Watch(discover, time.Millisecond, func([]*dom.Field) {}, nil)

		require.NotPanics(t, func() {
			stop()
			stop()
		})
	})
}
