package hashtable

import (
	"sort"
	"testing"
)

func TestRange(t *testing.T) {
	tbl := New()
	tbl.Set("a", "1")
	tbl.Set("b", "2")
	tbl.Set("c", "3")

	collected := make(map[string]string)
	tbl.Range(func(key, value string) bool {
		collected[key] = value
		return true
	})

	if len(collected) != 3 {
		t.Errorf("Range collected %d items, want 3", len(collected))
	}
	for k, v := range map[string]string{"a": "1", "b": "2", "c": "3"} {
		if collected[k] != v {
			t.Errorf("collected[%s] = %q, want %q", k, collected[k], v)
		}
	}
}

func TestRangeEarlyStop(t *testing.T) {
	tbl := New()
	for _, k := range []string{"a", "b", "c", "d", "e"} {
		tbl.Set(k, k)
	}

	count := 0
	tbl.Range(func(_, _ string) bool {
		count++
		return count < 2
	})
	if count != 2 {
		t.Errorf("Range visited %d entries, want 2", count)
	}
}

func TestRangeCallbackMayMutate(t *testing.T) {
	tbl := New()
	for _, k := range []string{"a", "b", "c"} {
		tbl.Set(k, k)
	}

	tbl.Range(func(key, _ string) bool {
		tbl.Delete(key)
		return true
	})
	if got := tbl.Len(); got != 0 {
		t.Errorf("Len() = %d after deleting inside Range, want 0", got)
	}
}

func TestKeys(t *testing.T) {
	tbl := New()
	tbl.Set("x", "1")
	tbl.Set("y", "2")

	keys := tbl.Keys()
	sort.Strings(keys)
	if len(keys) != 2 || keys[0] != "x" || keys[1] != "y" {
		t.Errorf("Keys() = %v, want [x y]", keys)
	}
}

func TestStats(t *testing.T) {
	tbl := New()
	for _, k := range []string{"a", "b", "c", "d"} {
		tbl.Set(k, k)
	}

	stats := tbl.Stats()
	if len(stats) != tbl.Capacity() {
		t.Fatalf("Stats() returned %d buckets, want %d", len(stats), tbl.Capacity())
	}
	total := 0
	for i, s := range stats {
		if s.Index != i {
			t.Errorf("stats[%d].Index = %d", i, s.Index)
		}
		total += s.Length
	}
	if total != 4 {
		t.Errorf("sum of bucket lengths = %d, want 4", total)
	}
}
