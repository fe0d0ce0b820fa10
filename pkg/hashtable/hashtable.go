package hashtable

import (
	"sync"

	"github.com/spaolacci/murmur3"
)

const (
	// DefaultCapacity is the initial bucket count.
	DefaultCapacity = 8

	// DefaultMaxLoadFactor is the size/capacity ratio above which the table doubles.
	DefaultMaxLoadFactor = 0.75
)

// Entry is a single key/value pair stored in a bucket.
type Entry struct {
	Key   string
	Value string
}

// Table is a concurrent-safe chaining hash table.
type Table struct {
	mu      sync.Mutex
	buckets [][]Entry
	size    int
	maxLoad float64

	onRehash func(oldCap, newCap int)
}

// Option configures a Table.
type Option func(*Table)

// WithInitialCapacity sets the initial bucket count. Values below 1 become 1.
func WithInitialCapacity(n int) Option {
	return func(t *Table) {
		if n < 1 {
			n = 1
		}
		t.buckets = make([][]Entry, n)
	}
}

// WithMaxLoadFactor overrides the growth threshold.
// Non-positive values keep the default.
func WithMaxLoadFactor(f float64) Option {
	return func(t *Table) {
		if f > 0 {
			t.maxLoad = f
		}
	}
}

// WithRehashHook registers a callback invoked after every capacity doubling.
// The callback runs while the table lock is held and must not call back into the table.
func WithRehashHook(fn func(oldCap, newCap int)) Option {
	return func(t *Table) {
		t.onRehash = fn
	}
}

// New creates a new table with DefaultCapacity buckets.
func New(opts ...Option) *Table {
	t := &Table{
		buckets: make([][]Entry, DefaultCapacity),
		maxLoad: DefaultMaxLoadFactor,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func bucketIndex(key string, capacity int) int {
	return int(murmur3.Sum64([]byte(key)) % uint64(capacity))
}

// Set stores a key/value pair, overwriting the value of an existing key.
func (t *Table) Set(key, value string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.insert(key, value) {
		return
	}
	if float64(t.size)/float64(len(t.buckets)) > t.maxLoad {
		t.rehash()
	}
}

// insert places the entry in its bucket and reports whether a new entry was added.
// Caller must hold t.mu.
func (t *Table) insert(key, value string) bool {
	idx := bucketIndex(key, len(t.buckets))
	bucket := t.buckets[idx]
	for i := range bucket {
		if bucket[i].Key == key {
			bucket[i].Value = value
			return false
		}
	}
	t.buckets[idx] = append(bucket, Entry{Key: key, Value: value})
	t.size++
	return true
}

// rehash doubles the bucket count and redistributes every entry.
// Caller must hold t.mu.
func (t *Table) rehash() {
	old := t.buckets
	oldCap := len(old)

	t.buckets = make([][]Entry, oldCap*2)
	t.size = 0
	for _, bucket := range old {
		for _, e := range bucket {
			t.insert(e.Key, e.Value)
		}
	}

	if t.onRehash != nil {
		t.onRehash(oldCap, len(t.buckets))
	}
}

// Get retrieves the value for a key.
func (t *Table) Get(key string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, e := range t.buckets[bucketIndex(key, len(t.buckets))] {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

// Delete removes a key. It returns false if the key was not present.
func (t *Table) Delete(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := bucketIndex(key, len(t.buckets))
	bucket := t.buckets[idx]
	for i := range bucket {
		if bucket[i].Key == key {
			// Keep chain order; clear the vacated tail slot so the string can be collected.
			copy(bucket[i:], bucket[i+1:])
			bucket[len(bucket)-1] = Entry{}
			t.buckets[idx] = bucket[:len(bucket)-1]
			t.size--
			return true
		}
	}
	return false
}

// Has checks if a key exists.
func (t *Table) Has(key string) bool {
	_, ok := t.Get(key)
	return ok
}

// Len returns the number of stored entries.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.size
}

// Capacity returns the current bucket count.
func (t *Table) Capacity() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.buckets)
}

// LoadFactor returns size/capacity.
func (t *Table) LoadFactor() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return float64(t.size) / float64(len(t.buckets))
}
