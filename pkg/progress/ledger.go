// Package progress implements the progress ledger: a concurrency-safe,
// observable aggregation of per-category installation counters. Workers
// mutate it through a single mutex-guarded path; observers read consistent
// snapshots or subscribe for pushed updates.
package progress

import (
	"sync"
)

// Category identifies one progress bucket of an installation run.
type Category string

// Ledger categories.
const (
	CategoryCore         Category = "core"
	CategoryResources    Category = "resources"
	CategoryLoader       Category = "loader"
	CategoryFiles        Category = "modpack-files"
	CategoryDependencies Category = "modpack-dependencies"
	CategoryOverrides    Category = "overrides"
)

// Categories lists all ledger categories in display order.
var Categories = []Category{
	CategoryCore,
	CategoryResources,
	CategoryLoader,
	CategoryFiles,
	CategoryDependencies,
	CategoryOverrides,
}

// Counters is a value snapshot of one category's progress.
type Counters struct {
	Total       int
	Completed   int
	CurrentItem string
	Active      bool
}

// Fraction returns completed/total clamped to [0,1]; a zero total yields 0.
func (c Counters) Fraction() float64 {
	if c.Total <= 0 {
		return 0
	}
	f := float64(c.Completed) / float64(c.Total)
	if f > 1 {
		return 1
	}
	return f
}

// Update is pushed to subscribers after every ledger mutation.
type Update struct {
	Category Category
	Counters Counters
}

// Ledger aggregates per-category counters for one installation run.
// The zero value is not usable; construct with NewLedger.
type Ledger struct {
	mu      sync.Mutex
	buckets map[Category]*Counters
	subs    []chan Update
}

// NewLedger creates a ledger with all categories zeroed.
func NewLedger() *Ledger {
	l := &Ledger{buckets: make(map[Category]*Counters, len(Categories))}
	for _, c := range Categories {
		l.buckets[c] = &Counters{}
	}
	return l
}

// StartCategory fixes a category's total and marks it active. Totals are set
// once, before the category's work begins.
func (l *Ledger) StartCategory(category Category, total int) {
	l.mu.Lock()
	b := l.bucket(category)
	b.Total = total
	b.Completed = 0
	b.CurrentItem = ""
	b.Active = true
	snapshot := *b
	l.mu.Unlock()
	l.publish(category, snapshot)
}

// Advance records the completion of one item. Completed is monotonically
// non-decreasing within a run and never exceeds the total; a failed item
// still advances so the bar does not stall, with the failure surfaced through
// the run's error instead.
func (l *Ledger) Advance(category Category, itemName string) {
	l.mu.Lock()
	b := l.bucket(category)
	if b.Completed < b.Total {
		b.Completed++
	}
	b.CurrentItem = itemName
	snapshot := *b
	l.mu.Unlock()
	l.publish(category, snapshot)
}

// FinishCategory marks a category inactive, leaving its counters readable.
func (l *Ledger) FinishCategory(category Category) {
	l.mu.Lock()
	b := l.bucket(category)
	b.Active = false
	snapshot := *b
	l.mu.Unlock()
	l.publish(category, snapshot)
}

// Reset zeroes every category for a new run.
func (l *Ledger) Reset() {
	l.mu.Lock()
	snapshots := make([]Update, 0, len(l.buckets))
	for _, c := range Categories {
		b := l.bucket(c)
		*b = Counters{}
		snapshots = append(snapshots, Update{Category: c, Counters: *b})
	}
	l.mu.Unlock()
	for _, u := range snapshots {
		l.publish(u.Category, u.Counters)
	}
}

// GetCounters returns a consistent snapshot of one category.
func (l *Ledger) GetCounters(category Category) Counters {
	l.mu.Lock()
	defer l.mu.Unlock()
	return *l.bucket(category)
}

// Snapshot returns a consistent snapshot of all categories.
func (l *Ledger) Snapshot() map[Category]Counters {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[Category]Counters, len(l.buckets))
	for c, b := range l.buckets {
		out[c] = *b
	}
	return out
}

// Subscribe returns a channel receiving an Update after every mutation. The
// channel is buffered; when a subscriber falls behind, updates are dropped
// rather than blocking the installation.
func (l *Ledger) Subscribe() <-chan Update {
	ch := make(chan Update, 64)
	l.mu.Lock()
	l.subs = append(l.subs, ch)
	l.mu.Unlock()
	return ch
}

func (l *Ledger) publish(category Category, snapshot Counters) {
	l.mu.Lock()
	subs := make([]chan Update, len(l.subs))
	copy(subs, l.subs)
	l.mu.Unlock()
	for _, ch := range subs {
		select {
		case ch <- Update{Category: category, Counters: snapshot}:
		default:
		}
	}
}

// bucket must be called with l.mu held.
func (l *Ledger) bucket(category Category) *Counters {
	b, ok := l.buckets[category]
	if !ok {
		b = &Counters{}
		l.buckets[category] = b
	}
	return b
}
