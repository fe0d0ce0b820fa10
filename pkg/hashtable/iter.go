package hashtable

// Range iterates over a snapshot of all entries.
//
// The snapshot is taken under the table lock; fn runs without it, so fn may
// call back into the table. The callback returns false to stop iteration.
func (t *Table) Range(fn func(key, value string) bool) {
	for _, e := range t.Entries() {
		if !fn(e.Key, e.Value) {
			return
		}
	}
}

// Entries returns a copy of all entries in bucket order.
func (t *Table) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Entry, 0, t.size)
	for _, bucket := range t.buckets {
		out = append(out, bucket...)
	}
	return out
}

// Keys returns all keys.
func (t *Table) Keys() []string {
	entries := t.Entries()
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	return keys
}

// BucketStats describes the chain length of one bucket.
type BucketStats struct {
	Index  int
	Length int
}

// Stats returns per-bucket chain lengths.
func (t *Table) Stats() []BucketStats {
	t.mu.Lock()
	defer t.mu.Unlock()

	stats := make([]BucketStats, len(t.buckets))
	for i, bucket := range t.buckets {
		stats[i] = BucketStats{Index: i, Length: len(bucket)}
	}
	return stats
}
