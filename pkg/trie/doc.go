// Package trie provides the prefix index of prefixkv.
//
// Every stored key is a path of single-byte edges from the root; the node at
// the end of the path is marked terminal. Deleting a key clears the flag and
// prunes every node on the path that is left non-terminal and childless, so
// the tree never holds unreachable branches.
//
// All operations take the trie's mutex for their full duration. ScanPrefix
// returns a freshly allocated slice in lexicographic byte order.
package trie
