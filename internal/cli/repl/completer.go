package repl

import (
	"strings"

	"github.com/yndnr/prefixkv/pkg/trie"
)

var usages = map[string]string{
	"set":  "SET key value",
	"get":  "GET key",
	"del":  "DEL key",
	"scan": "SCAN prefix",
	"help": "help [prefix]",
	"quit": "quit | exit | q",
}

// Completer looks up command usages by keyword prefix.
type Completer struct {
	keywords *trie.Trie
}

// NewCompleter creates a new Completer.
func NewCompleter() *Completer {
	c := &Completer{keywords: trie.New()}
	for k := range usages {
		c.keywords.Insert(k)
	}
	return c
}

// Complete returns the usages of every keyword starting with prefix,
// case-insensitively, in keyword order.
func (c *Completer) Complete(prefix string) []string {
	keys := c.keywords.ScanPrefix(strings.ToLower(prefix))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, usages[k])
	}
	return out
}
