package progress

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timeout(t *testing.T) <-chan time.Time {
	t.Helper()
	return time.After(5 * time.Second)
}

func TestStartAdvanceFinish(t *testing.T) {
	l := NewLedger()

	l.StartCategory(CategoryFiles, 3)
	c := l.GetCounters(CategoryFiles)
	assert.Equal(t, 3, c.Total)
	assert.Equal(t, 0, c.Completed)
	assert.True(t, c.Active)
	assert.Equal(t, 0.0, c.Fraction())

	l.Advance(CategoryFiles, "mods/sodium.jar")
	c = l.GetCounters(CategoryFiles)
	assert.Equal(t, 1, c.Completed)
	assert.Equal(t, "mods/sodium.jar", c.CurrentItem)
	assert.InDelta(t, 1.0/3.0, c.Fraction(), 1e-9)

	l.Advance(CategoryFiles, "mods/lithium.jar")
	l.Advance(CategoryFiles, "mods/iris.jar")
	l.FinishCategory(CategoryFiles)

	c = l.GetCounters(CategoryFiles)
	assert.Equal(t, 3, c.Completed)
	assert.False(t, c.Active)
	assert.Equal(t, 1.0, c.Fraction())
}

func TestAdvance_NeverExceedsTotal(t *testing.T) {
	l := NewLedger()
	l.StartCategory(CategoryOverrides, 2)

	for i := 0; i < 10; i++ {
		l.Advance(CategoryOverrides, "config/x.cfg")
		c := l.GetCounters(CategoryOverrides)
		assert.LessOrEqual(t, c.Completed, c.Total)
	}
	assert.Equal(t, 2, l.GetCounters(CategoryOverrides).Completed)
}

func TestAdvance_Monotonic(t *testing.T) {
	l := NewLedger()
	l.StartCategory(CategoryDependencies, 100)

	prev := 0
	for i := 0; i < 100; i++ {
		l.Advance(CategoryDependencies, "dep")
		c := l.GetCounters(CategoryDependencies)
		assert.GreaterOrEqual(t, c.Completed, prev)
		prev = c.Completed
	}
}

func TestZeroTotalFractionIsZero(t *testing.T) {
	l := NewLedger()
	l.StartCategory(CategoryLoader, 0)
	assert.Equal(t, 0.0, l.GetCounters(CategoryLoader).Fraction())
}

func TestConcurrentAdvance(t *testing.T) {
	l := NewLedger()
	const workers = 8
	const perWorker = 50
	l.StartCategory(CategoryFiles, workers*perWorker)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				l.Advance(CategoryFiles, "item")
			}
		}()
	}
	wg.Wait()

	c := l.GetCounters(CategoryFiles)
	assert.Equal(t, workers*perWorker, c.Completed)
	assert.Equal(t, 1.0, c.Fraction())
}

func TestReset(t *testing.T) {
	l := NewLedger()
	l.StartCategory(CategoryFiles, 5)
	l.Advance(CategoryFiles, "a")
	l.Reset()

	for _, cat := range Categories {
		c := l.GetCounters(cat)
		assert.Equal(t, Counters{}, c)
	}
}

func TestSubscribe(t *testing.T) {
	l := NewLedger()
	ch := l.Subscribe()

	l.StartCategory(CategoryFiles, 1)
	u := <-ch
	assert.Equal(t, CategoryFiles, u.Category)
	assert.Equal(t, 1, u.Counters.Total)

	l.Advance(CategoryFiles, "mods/a.jar")
	u = <-ch
	assert.Equal(t, 1, u.Counters.Completed)
	assert.Equal(t, "mods/a.jar", u.Counters.CurrentItem)
}

func TestSubscribe_SlowSubscriberDoesNotBlock(t *testing.T) {
	l := NewLedger()
	_ = l.Subscribe() // never drained

	l.StartCategory(CategoryFiles, 1000)
	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			l.Advance(CategoryFiles, "item")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-timeout(t):
		t.Fatal("ledger mutation blocked on a slow subscriber")
	}
	require.Equal(t, 1000, l.GetCounters(CategoryFiles).Completed)
}

func TestSnapshot(t *testing.T) {
	l := NewLedger()
	l.StartCategory(CategoryCore, 2)
	l.Advance(CategoryCore, "client.jar")

	snap := l.Snapshot()
	require.Len(t, snap, len(Categories))
	assert.Equal(t, 1, snap[CategoryCore].Completed)
	assert.Equal(t, 2, snap[CategoryCore].Total)
}
