package watcher_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sassy/internal/adapters/watcher"
)

func TestDebouncer_Add_SinglePath(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var batches [][]string

		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			batches = append(batches, paths)
		})

		d.Add("/site/styles/main.scss")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		require.Len(t, batches, 1)
		assert.Equal(t, []string{"/site/styles/main.scss"}, batches[0])
	})
}

func TestDebouncer_Add_CoalescesAndDeduplicates(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var batches [][]string

		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			batches = append(batches, paths)
		})

		d.Add("/site/styles/_vars.scss")
		d.Add("/site/styles/main.scss")
		d.Add("/site/styles/_vars.scss")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		require.Len(t, batches, 1)
		assert.Equal(t, []string{"/site/styles/_vars.scss", "/site/styles/main.scss"}, batches[0])
	})
}

func TestDebouncer_Add_TimerReset(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var mu sync.Mutex
		var calls int

		d := watcher.NewDebouncer(100*time.Millisecond, func([]string) {
			mu.Lock()
			calls++
			mu.Unlock()
		})

		d.Add("/site/a.scss")
		time.Sleep(50 * time.Millisecond)
		d.Add("/site/b.scss")
		time.Sleep(50 * time.Millisecond)

		synctest.Wait()
		mu.Lock()
		assert.Equal(t, 0, calls, "the second change restarts the quiet period")
		mu.Unlock()

		time.Sleep(60 * time.Millisecond)
		synctest.Wait()

		mu.Lock()
		assert.Equal(t, 1, calls)
		mu.Unlock()
	})
}

func TestDebouncer_BatchesDoNotOverlap(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var mu sync.Mutex
		var running, maxRunning, calls int

		d := watcher.NewDebouncer(10*time.Millisecond, func([]string) {
			mu.Lock()
			running++
			calls++
			maxRunning = max(maxRunning, running)
			mu.Unlock()

			time.Sleep(100 * time.Millisecond)

			mu.Lock()
			running--
			mu.Unlock()
		})

		d.Add("/site/a.scss")
		time.Sleep(20 * time.Millisecond)
		d.Add("/site/b.scss")
		time.Sleep(300 * time.Millisecond)
		synctest.Wait()

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, 2, calls)
		assert.Equal(t, 1, maxRunning)
	})
}

func TestDebouncer_Flush(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var batches [][]string

		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			batches = append(batches, paths)
		})

		d.Add("/site/a.scss")
		d.Add("/site/b.scss")
		d.Flush()

		require.Len(t, batches, 1)
		assert.Len(t, batches[0], 2)

		// The cancelled timer must not deliver again.
		time.Sleep(150 * time.Millisecond)
		synctest.Wait()
		assert.Len(t, batches, 1)
	})
}

func TestDebouncer_Flush_Empty(t *testing.T) {
	var calls int
	d := watcher.NewDebouncer(100*time.Millisecond, func([]string) { calls++ })

	d.Flush()

	assert.Equal(t, 0, calls)
}

func TestDebouncer_Stop_DropsPending(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var calls int
		d := watcher.NewDebouncer(100*time.Millisecond, func([]string) { calls++ })

		d.Add("/site/a.scss")
		d.Stop()

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()
		d.Flush()

		assert.Equal(t, 0, calls)
	})
}

func TestDebouncer_NilCallback(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		d := watcher.NewDebouncer(50*time.Millisecond, nil)

		assert.NotPanics(t, func() {
			d.Add("/site/a.scss")
			time.Sleep(100 * time.Millisecond)
			synctest.Wait()
			d.Flush()
		})
	})
}
