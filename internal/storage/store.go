package storage

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/yndnr/prefixkv/internal/telemetry/metric"
	"github.com/yndnr/prefixkv/pkg/hashtable"
	"github.com/yndnr/prefixkv/pkg/trie"
)

// Consistency selects how the two indexes are kept in step.
type Consistency string

const (
	// ConsistencyRelaxed locks each index separately.
	ConsistencyRelaxed Consistency = "relaxed"
	// ConsistencyStrict holds a store-wide lock across both indexes.
	ConsistencyStrict Consistency = "strict"
)

// ErrInconsistent reports that the table and the trie disagree on the key set.
var ErrInconsistent = errors.New("storage: table and trie key sets differ")

// Config configures the store.
type Config struct {
	// InitialCapacity is the starting bucket count of the hash table.
	InitialCapacity int
	// MaxLoadFactor is the load factor above which the table doubles.
	MaxLoadFactor float64
	// Consistency is relaxed (default) or strict.
	Consistency Consistency
}

// DefaultConfig returns the default store configuration.
func DefaultConfig() Config {
	return Config{
		InitialCapacity: hashtable.DefaultCapacity,
		MaxLoadFactor:   hashtable.DefaultMaxLoadFactor,
		Consistency:     ConsistencyRelaxed,
	}
}

// ParseConsistency converts a config string to a Consistency mode.
func ParseConsistency(s string) (Consistency, error) {
	switch c := Consistency(strings.ToLower(s)); c {
	case "", ConsistencyRelaxed:
		return ConsistencyRelaxed, nil
	case ConsistencyStrict:
		return c, nil
	default:
		return "", fmt.Errorf("unknown consistency mode %q", s)
	}
}

// Store keeps a hash table and a prefix trie over the same keys.
type Store struct {
	table *hashtable.Table
	index *trie.Trie

	strict bool
	joint  sync.RWMutex

	metrics *metric.Registry
	logger  *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithMetrics wires store gauges and the rehash counter into reg.
func WithMetrics(reg *metric.Registry) Option {
	return func(s *Store) {
		s.metrics = reg
	}
}

// WithLogger sets the store logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a store.
func New(cfg Config, opts ...Option) *Store {
	s := &Store{
		strict: cfg.Consistency == ConsistencyStrict,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	capacity := cfg.InitialCapacity
	if capacity <= 0 {
		capacity = hashtable.DefaultCapacity
	}
	s.table = hashtable.New(
		hashtable.WithInitialCapacity(capacity),
		hashtable.WithMaxLoadFactor(cfg.MaxLoadFactor),
		hashtable.WithRehashHook(s.onRehash),
	)
	s.index = trie.New()

	if s.metrics != nil {
		s.metrics.MustRegister(metric.NewStoreCollector(s.snapshot))
	}
	return s
}

// onRehash runs under the table lock and must not touch the table.
func (s *Store) onRehash(oldCap, newCap int) {
	s.metrics.RehashObserved()
	s.logger.Debug("hash table grew", "from", oldCap, "to", newCap)
}

// Set stores value under key and indexes key for prefix scans.
func (s *Store) Set(key, value string) {
	if s.strict {
		s.joint.Lock()
		defer s.joint.Unlock()
	}
	s.table.Set(key, value)
	s.index.Insert(key)
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (string, bool) {
	if s.strict {
		s.joint.RLock()
		defer s.joint.RUnlock()
	}
	return s.table.Get(key)
}

// Delete removes key. It returns false if key was not stored.
func (s *Store) Delete(key string) bool {
	if s.strict {
		s.joint.Lock()
		defer s.joint.Unlock()
	}
	removed := s.table.Delete(key)
	if removed {
		s.index.Remove(key)
	}
	return removed
}

// Scan returns the stored keys starting with prefix in lexicographic order.
func (s *Store) Scan(prefix string) []string {
	if s.strict {
		s.joint.RLock()
		defer s.joint.RUnlock()
	}
	return s.index.ScanPrefix(prefix)
}

// Len returns the number of entries in the table.
func (s *Store) Len() int {
	return s.table.Len()
}

// Strict reports whether the store runs in strict consistency mode.
func (s *Store) Strict() bool {
	return s.strict
}

// Stats is a point-in-time view of the store.
type Stats struct {
	Keys        int     `json:"keys"`
	TrieKeys    int     `json:"trie_keys"`
	TrieNodes   int     `json:"trie_nodes"`
	Buckets     int     `json:"buckets"`
	LoadFactor  float64 `json:"load_factor"`
	Consistency string  `json:"consistency"`
}

// Stats returns current sizes. In relaxed mode the figures are read one
// structure at a time and may straddle a concurrent write.
func (s *Store) Stats() Stats {
	if s.strict {
		s.joint.RLock()
		defer s.joint.RUnlock()
	}
	mode := ConsistencyRelaxed
	if s.strict {
		mode = ConsistencyStrict
	}
	return Stats{
		Keys:        s.table.Len(),
		TrieKeys:    s.index.Len(),
		TrieNodes:   s.index.Nodes(),
		Buckets:     s.table.Capacity(),
		LoadFactor:  s.table.LoadFactor(),
		Consistency: string(mode),
	}
}

func (s *Store) snapshot() metric.StoreSnapshot {
	st := s.Stats()
	return metric.StoreSnapshot{
		Keys:       st.Keys,
		TrieKeys:   st.TrieKeys,
		TrieNodes:  st.TrieNodes,
		Buckets:    st.Buckets,
		LoadFactor: st.LoadFactor,
	}
}

// CheckConsistency compares the table and trie key sets.
// In relaxed mode, run it only while no writes are in flight.
func (s *Store) CheckConsistency() error {
	if s.strict {
		s.joint.Lock()
		defer s.joint.Unlock()
	}

	tableKeys := s.table.Keys()
	trieKeys := s.index.ScanPrefix("")
	slices.Sort(tableKeys)

	for i := 0; i < len(tableKeys) || i < len(trieKeys); i++ {
		switch {
		case i >= len(trieKeys):
			return fmt.Errorf("%w: %q in table only", ErrInconsistent, tableKeys[i])
		case i >= len(tableKeys):
			return fmt.Errorf("%w: %q in trie only", ErrInconsistent, trieKeys[i])
		case tableKeys[i] < trieKeys[i]:
			return fmt.Errorf("%w: %q in table only", ErrInconsistent, tableKeys[i])
		case tableKeys[i] > trieKeys[i]:
			return fmt.Errorf("%w: %q in trie only", ErrInconsistent, trieKeys[i])
		}
	}
	return nil
}
