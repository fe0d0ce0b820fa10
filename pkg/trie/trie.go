package trie

import (
	"slices"
	"sync"
)

// node owns its children exclusively.
type node struct {
	children map[byte]*node
	terminal bool
}

func (n *node) child(c byte) *node {
	if n.children == nil {
		return nil
	}
	return n.children[c]
}

// Trie is a concurrent-safe prefix tree over string keys.
type Trie struct {
	mu    sync.Mutex
	root  *node
	keys  int
	nodes int
}

// New creates an empty trie.
func New() *Trie {
	return &Trie{root: &node{}}
}

// Insert records key. Inserting an existing key is a no-op.
func (t *Trie) Insert(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cur := t.root
	for i := 0; i < len(key); i++ {
		next := cur.child(key[i])
		if next == nil {
			if cur.children == nil {
				cur.children = make(map[byte]*node)
			}
			next = &node{}
			cur.children[key[i]] = next
			t.nodes++
		}
		cur = next
	}
	if !cur.terminal {
		cur.terminal = true
		t.keys++
	}
}

// Contains reports whether key was inserted and not removed since.
func (t *Trie) Contains(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := t.walk(key)
	return n != nil && n.terminal
}

// walk returns the node spelling s, or nil. Caller must hold t.mu.
func (t *Trie) walk(s string) *node {
	cur := t.root
	for i := 0; i < len(s) && cur != nil; i++ {
		cur = cur.child(s[i])
	}
	return cur
}

// Remove deletes key and prunes the branches it leaves empty.
// It returns false if key was not stored.
func (t *Trie) Remove(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	removed, _ := t.remove(t.root, key, 0)
	if removed {
		t.keys--
	}
	return removed
}

// remove clears the terminal flag at the end of key. prune tells the parent
// that n is now non-terminal and childless and must be unlinked.
func (t *Trie) remove(n *node, key string, depth int) (removed, prune bool) {
	if depth == len(key) {
		if !n.terminal {
			return false, false
		}
		n.terminal = false
		return true, len(n.children) == 0
	}

	c := key[depth]
	next := n.child(c)
	if next == nil {
		return false, false
	}

	removed, prune = t.remove(next, key, depth+1)
	if !prune {
		return removed, false
	}
	delete(n.children, c)
	t.nodes--
	if len(n.children) == 0 {
		n.children = nil
	}
	return removed, !n.terminal && len(n.children) == 0
}

// ScanPrefix returns every stored key starting with prefix.
// An empty prefix returns every key.
func (t *Trie) ScanPrefix(prefix string) []string {
	return t.ScanPrefixLimit(prefix, 0)
}

// ScanPrefixLimit is ScanPrefix bounded to at most limit keys.
// limit <= 0 means unlimited.
func (t *Trie) ScanPrefixLimit(prefix string, limit int) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	results := make([]string, 0)
	start := t.walk(prefix)
	if start == nil {
		return results
	}

	buf := []byte(prefix)
	collect(start, &buf, &results, limit)
	return results
}

// collect appends terminal paths below n in ascending edge order.
// It returns false once limit is reached.
func collect(n *node, path *[]byte, out *[]string, limit int) bool {
	if n.terminal {
		*out = append(*out, string(*path))
		if limit > 0 && len(*out) >= limit {
			return false
		}
	}
	if len(n.children) == 0 {
		return true
	}

	edges := make([]byte, 0, len(n.children))
	for c := range n.children {
		edges = append(edges, c)
	}
	slices.Sort(edges)

	for _, c := range edges {
		*path = append(*path, c)
		more := collect(n.children[c], path, out, limit)
		*path = (*path)[:len(*path)-1]
		if !more {
			return false
		}
	}
	return true
}

// Len returns the number of stored keys.
func (t *Trie) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.keys
}

// Nodes returns the number of allocated nodes, excluding the root.
func (t *Trie) Nodes() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.nodes
}
