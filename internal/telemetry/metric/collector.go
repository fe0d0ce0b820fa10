package metric

import "github.com/prometheus/client_golang/prometheus"

// StoreSnapshot is a point-in-time view of store sizes.
type StoreSnapshot struct {
	Keys       int
	TrieKeys   int
	TrieNodes  int
	Buckets    int
	LoadFactor float64
}

// StoreCollector reports store sizes at scrape time.
type StoreCollector struct {
	snapshot func() StoreSnapshot

	keys       *prometheus.Desc
	trieKeys   *prometheus.Desc
	trieNodes  *prometheus.Desc
	buckets    *prometheus.Desc
	loadFactor *prometheus.Desc
}

// NewStoreCollector creates a collector that calls snapshot on every scrape.
func NewStoreCollector(snapshot func() StoreSnapshot) *StoreCollector {
	return &StoreCollector{
		snapshot: snapshot,
		keys: prometheus.NewDesc(
			prometheus.BuildFQName(Namespace, "store", "keys"),
			"Number of entries in the hash table", nil, nil),
		trieKeys: prometheus.NewDesc(
			prometheus.BuildFQName(Namespace, "trie", "keys"),
			"Number of terminal nodes in the prefix trie", nil, nil),
		trieNodes: prometheus.NewDesc(
			prometheus.BuildFQName(Namespace, "trie", "nodes"),
			"Number of allocated prefix trie nodes", nil, nil),
		buckets: prometheus.NewDesc(
			prometheus.BuildFQName(Namespace, "hashtable", "buckets"),
			"Current hash table capacity", nil, nil),
		loadFactor: prometheus.NewDesc(
			prometheus.BuildFQName(Namespace, "hashtable", "load_factor"),
			"Entries per bucket", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *StoreCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.keys
	ch <- c.trieKeys
	ch <- c.trieNodes
	ch <- c.buckets
	ch <- c.loadFactor
}

// Collect implements prometheus.Collector.
func (c *StoreCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.snapshot()
	ch <- prometheus.MustNewConstMetric(c.keys, prometheus.GaugeValue, float64(s.Keys))
	ch <- prometheus.MustNewConstMetric(c.trieKeys, prometheus.GaugeValue, float64(s.TrieKeys))
	ch <- prometheus.MustNewConstMetric(c.trieNodes, prometheus.GaugeValue, float64(s.TrieNodes))
	ch <- prometheus.MustNewConstMetric(c.buckets, prometheus.GaugeValue, float64(s.Buckets))
	ch <- prometheus.MustNewConstMetric(c.loadFactor, prometheus.GaugeValue, s.LoadFactor)
}
