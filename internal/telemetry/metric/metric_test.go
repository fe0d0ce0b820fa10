package metric

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilRegistryIsNoop(t *testing.T) {
	var r *Registry
	r.ObserveCommand("GET", ResultOK, time.Millisecond)
	r.ConnOpened()
	r.ConnClosed()
	r.ConnRejected()
	r.RehashObserved()
	r.MustRegister()
	if r.Handler() == nil {
		t.Error("Handler() on nil registry returned nil")
	}
}

func TestObserveCommand(t *testing.T) {
	r := NewRegistry()
	r.ObserveCommand("SET", ResultOK, time.Microsecond)
	r.ObserveCommand("SET", ResultOK, time.Microsecond)
	r.ObserveCommand("GET", ResultNil, time.Microsecond)

	if got := testutil.ToFloat64(r.CommandsTotal.WithLabelValues("SET", ResultOK)); got != 2 {
		t.Errorf("commands_total{SET,ok} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.CommandsTotal.WithLabelValues("GET", ResultNil)); got != 1 {
		t.Errorf("commands_total{GET,nil} = %v, want 1", got)
	}
}

func TestConnectionGauges(t *testing.T) {
	r := NewRegistry()
	r.ConnOpened()
	r.ConnOpened()
	r.ConnClosed()
	r.ConnRejected()

	if got := testutil.ToFloat64(r.ConnectionsActive); got != 1 {
		t.Errorf("connections_active = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.ConnectionsTotal); got != 2 {
		t.Errorf("connections_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.ConnectionsRejected); got != 1 {
		t.Errorf("connections_rejected_total = %v, want 1", got)
	}
}

func TestStoreCollector(t *testing.T) {
	c := NewStoreCollector(func() StoreSnapshot {
		return StoreSnapshot{Keys: 3, TrieKeys: 3, TrieNodes: 7, Buckets: 8, LoadFactor: 0.375}
	})

	if got := testutil.CollectAndCount(c); got != 5 {
		t.Errorf("CollectAndCount = %d, want 5", got)
	}

	expected := `
# HELP prefixkv_store_keys Number of entries in the hash table
# TYPE prefixkv_store_keys gauge
prefixkv_store_keys 3
`
	if err := testutil.CollectAndCompare(c, strings.NewReader(expected), "prefixkv_store_keys"); err != nil {
		t.Error(err)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	r := NewRegistry()
	r.RehashObserved()

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if !strings.Contains(string(body), "prefixkv_hashtable_rehashes_total 1") {
		t.Errorf("metrics output missing rehash counter:\n%s", body)
	}
}
