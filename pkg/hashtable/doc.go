// Package hashtable provides the key/value table of prefixkv.
//
// The table is a separate-chaining hash table over string keys:
//
//   - Buckets: a slice of entry chains indexed by murmur3(key) mod capacity
//   - Growth: capacity doubles when size/capacity exceeds the max load factor (0.75)
//   - Locking: one mutex per table, held for the full duration of every operation,
//     including the rehash triggered by Set
//
// Usage:
//
//	t := hashtable.New()
//	t.Set("user:1", "alice")
//	v, ok := t.Get("user:1")
//
// Readers never observe a partially rehashed table because rehash runs inside
// the Set that triggered it.
package hashtable
