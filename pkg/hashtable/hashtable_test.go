package hashtable

import (
	"fmt"
	"sync"
	"testing"
)

func TestNew(t *testing.T) {
	tbl := New()
	if tbl == nil {
		t.Fatal("New() returned nil")
	}
	if got := tbl.Capacity(); got != DefaultCapacity {
		t.Errorf("Capacity() = %d, want %d", got, DefaultCapacity)
	}
	if got := tbl.Len(); got != 0 {
		t.Errorf("Len() = %d, want 0", got)
	}
}

func TestWithInitialCapacity(t *testing.T) {
	tests := []struct {
		input    int
		expected int
	}{
		{-1, 1},
		{0, 1},
		{1, 1},
		{3, 3},
		{64, 64},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("cap=%d", tt.input), func(t *testing.T) {
			tbl := New(WithInitialCapacity(tt.input))
			if got := tbl.Capacity(); got != tt.expected {
				t.Errorf("Capacity() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestSetAndGet(t *testing.T) {
	tbl := New()

	tbl.Set("key1", "100")
	tbl.Set("key2", "200")

	val, ok := tbl.Get("key1")
	if !ok || val != "100" {
		t.Errorf("Get(key1) = (%q, %v), want (\"100\", true)", val, ok)
	}

	val, ok = tbl.Get("key2")
	if !ok || val != "200" {
		t.Errorf("Get(key2) = (%q, %v), want (\"200\", true)", val, ok)
	}

	val, ok = tbl.Get("missing")
	if ok || val != "" {
		t.Errorf("Get(missing) = (%q, %v), want (\"\", false)", val, ok)
	}
}

func TestSetOverwrite(t *testing.T) {
	tbl := New()

	tbl.Set("k", "v1")
	tbl.Set("k", "v2")

	if val, _ := tbl.Get("k"); val != "v2" {
		t.Errorf("Get(k) = %q, want v2", val)
	}
	if got := tbl.Len(); got != 1 {
		t.Errorf("Len() = %d after overwrite, want 1", got)
	}
}

func TestDelete(t *testing.T) {
	tbl := New()
	tbl.Set("k", "v")

	if !tbl.Delete("k") {
		t.Error("Delete(k) = false, want true")
	}
	if tbl.Delete("k") {
		t.Error("second Delete(k) = true, want false")
	}
	if tbl.Delete("never") {
		t.Error("Delete(never) = true, want false")
	}
	if tbl.Has("k") {
		t.Error("Has(k) = true after delete")
	}
	if got := tbl.Len(); got != 0 {
		t.Errorf("Len() = %d, want 0", got)
	}
}

func TestDeleteKeepsChain(t *testing.T) {
	// A single bucket forces every key into one chain.
	tbl := New(WithInitialCapacity(1), WithMaxLoadFactor(1000))
	for i := 0; i < 5; i++ {
		tbl.Set(fmt.Sprintf("k%d", i), fmt.Sprintf("v%d", i))
	}

	if !tbl.Delete("k2") {
		t.Fatal("Delete(k2) = false, want true")
	}

	for _, i := range []int{0, 1, 3, 4} {
		key := fmt.Sprintf("k%d", i)
		want := fmt.Sprintf("v%d", i)
		if got, ok := tbl.Get(key); !ok || got != want {
			t.Errorf("Get(%s) = (%q, %v), want (%q, true)", key, got, ok, want)
		}
	}
	if got := tbl.Capacity(); got != 1 {
		t.Errorf("Capacity() = %d, want 1", got)
	}
}

func TestRehashGrowth(t *testing.T) {
	var rehashes [][2]int
	tbl := New(WithRehashHook(func(oldCap, newCap int) {
		rehashes = append(rehashes, [2]int{oldCap, newCap})
	}))

	// 8 buckets * 0.75 = 6; the 7th insert crosses the threshold.
	for i := 0; i < 6; i++ {
		tbl.Set(fmt.Sprintf("k%d", i), "v")
	}
	if got := tbl.Capacity(); got != 8 {
		t.Fatalf("Capacity() = %d after 6 inserts, want 8", got)
	}

	tbl.Set("k6", "v")
	if got := tbl.Capacity(); got != 16 {
		t.Fatalf("Capacity() = %d after 7 inserts, want 16", got)
	}
	if len(rehashes) != 1 || rehashes[0] != [2]int{8, 16} {
		t.Errorf("rehash hook calls = %v, want [[8 16]]", rehashes)
	}

	// Overwrites never trigger growth.
	for i := 0; i < 7; i++ {
		tbl.Set(fmt.Sprintf("k%d", i), "v2")
	}
	if len(rehashes) != 1 {
		t.Errorf("rehash hook calls = %d after overwrites, want 1", len(rehashes))
	}
}

func TestRehashTransparent(t *testing.T) {
	const n = 5000

	growing := New()
	fixed := New(WithInitialCapacity(8192))

	for i := 0; i < n; i++ {
		key := fmt.Sprintf("key-%d", i)
		value := fmt.Sprintf("value-%d", i)
		growing.Set(key, value)
		fixed.Set(key, value)
	}

	if fixed.Capacity() != 8192 {
		t.Fatalf("fixed table grew to %d", fixed.Capacity())
	}
	if growing.Capacity() <= DefaultCapacity {
		t.Fatalf("growing table did not grow, capacity %d", growing.Capacity())
	}
	if growing.Len() != n || fixed.Len() != n {
		t.Fatalf("Len() = %d / %d, want %d", growing.Len(), fixed.Len(), n)
	}
	if lf := growing.LoadFactor(); lf > DefaultMaxLoadFactor {
		t.Errorf("LoadFactor() = %f, want <= %f", lf, DefaultMaxLoadFactor)
	}

	for i := 0; i < n; i++ {
		key := fmt.Sprintf("key-%d", i)
		g, gok := growing.Get(key)
		f, fok := fixed.Get(key)
		if g != f || gok != fok {
			t.Fatalf("Get(%s) differs: growing=(%q,%v) fixed=(%q,%v)", key, g, gok, f, fok)
		}
	}

	// No entry lost or duplicated during redistribution.
	seen := make(map[string]bool, n)
	for _, k := range growing.Keys() {
		if seen[k] {
			t.Fatalf("duplicate key %s after rehash", k)
		}
		seen[k] = true
	}
	if len(seen) != n {
		t.Errorf("Keys() returned %d distinct keys, want %d", len(seen), n)
	}
}

func TestConcurrentDisjointSets(t *testing.T) {
	tbl := New()
	const workers = 16
	const perWorker = 500

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				tbl.Set(fmt.Sprintf("w%d-%d", w, i), fmt.Sprintf("%d", i))
			}
		}(w)
	}
	wg.Wait()

	if got := tbl.Len(); got != workers*perWorker {
		t.Fatalf("Len() = %d, want %d", got, workers*perWorker)
	}
	for w := 0; w < workers; w++ {
		for i := 0; i < perWorker; i++ {
			key := fmt.Sprintf("w%d-%d", w, i)
			if v, ok := tbl.Get(key); !ok || v != fmt.Sprintf("%d", i) {
				t.Fatalf("Get(%s) = (%q, %v)", key, v, ok)
			}
		}
	}
}

func TestConcurrentReadersDuringGrowth(t *testing.T) {
	tbl := New()
	tbl.Set("stable", "yes")

	stop := make(chan struct{})
	var wg sync.WaitGroup
	errs := make(chan string, 4)

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				if v, ok := tbl.Get("stable"); !ok || v != "yes" {
					errs <- fmt.Sprintf("Get(stable) = (%q, %v) during growth", v, ok)
					return
				}
			}
		}()
	}

	for i := 0; i < 20000; i++ {
		tbl.Set(fmt.Sprintf("grow-%d", i), "v")
	}
	close(stop)
	wg.Wait()
	close(errs)

	for e := range errs {
		t.Error(e)
	}
}

func BenchmarkSet(b *testing.B) {
	tbl := New()
	keys := make([]string, b.N)
	for i := range keys {
		keys[i] = fmt.Sprintf("key-%d", i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tbl.Set(keys[i], "v")
	}
}

func BenchmarkGet(b *testing.B) {
	tbl := New()
	for i := 0; i < 10000; i++ {
		tbl.Set(fmt.Sprintf("key-%d", i), "v")
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tbl.Get(fmt.Sprintf("key-%d", i%10000))
	}
}
