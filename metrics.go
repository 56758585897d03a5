package chaindump

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	blocksExported = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "chaindump",
		Name:      "blocks_exported_total",
		Help:      "Number of blocks serialized to the export sink.",
	})
	bytesExported = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "chaindump",
		Name:      "bytes_exported_total",
		Help:      "Number of encoded record bytes handed to the export sink.",
	})
	blocksImported = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "chaindump",
		Name:      "blocks_imported_total",
		Help:      "Number of blocks committed to the store by import.",
	})
	blocksSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "chaindump",
		Name:      "blocks_skipped_total",
		Help:      "Number of already-persisted blocks skipped by import.",
	})
)
