// Package storage provides the prefixkv store.
//
// Store composes two independently locked indexes:
//
//   - hashtable.Table: exact key -> value lookups
//   - trie.Trie: prefix enumeration of the stored keys
//
// Set writes the table then the trie; Delete removes from the trie only when
// the table removal succeeded. In the default relaxed mode the two steps take
// the two structure locks one after another, so a concurrent reader can see a
// key in one index and not yet in the other. Strict mode wraps each logical
// operation in a store-wide RWMutex and removes that window.
package storage
