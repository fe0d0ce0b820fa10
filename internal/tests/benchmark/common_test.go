package benchmark

import (
	"fmt"
	"runtime"
	"testing"

	"github.com/yndnr/prefixkv/internal/storage"
)

// KeyCounts defines the preload sizes for benchmarking.
var KeyCounts = []int{5000, 20000, 100000, 500000}

// SmallKeyCounts for quick benchmarks.
var SmallKeyCounts = []int{1000, 5000, 20000}

// keyFor returns the i-th benchmark key. Keys share "user:<i%100>:" prefixes
// so that scans return about 1% of the store.
func keyFor(i int) string {
	return fmt.Sprintf("user:%d:%d", i%100, i)
}

// prefillStore inserts count keys and returns them.
func prefillStore(store *storage.Store, count int) []string {
	keys := make([]string, count)
	for i := 0; i < count; i++ {
		keys[i] = keyFor(i)
		store.Set(keys[i], "v")
	}
	return keys
}

func newStore(consistency storage.Consistency) *storage.Store {
	cfg := storage.DefaultConfig()
	cfg.Consistency = consistency
	return storage.New(cfg)
}

// reportMemory reports memory usage.
func reportMemory(b *testing.B, prefix string) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.Alloc)/(1024*1024), prefix+"_MB")
	b.ReportMetric(float64(m.NumGC), prefix+"_GC")
}

// runWithKeyCounts runs a benchmark function with various preload sizes.
func runWithKeyCounts(b *testing.B, counts []int, benchFn func(b *testing.B, count int)) {
	for _, count := range counts {
		b.Run(fmt.Sprintf("keys_%d", count), func(b *testing.B) {
			benchFn(b, count)
		})
	}
}
