package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var liveKeysMetric = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "kiwidb_store_live_keys",
	Help: "The number of keys currently held by the store as of their last touch (may include keys that " +
		"have since expired but haven't been touched yet).",
})
