package store

import "github.com/prometheus/client_golang/prometheus"

// persistFailures counts saves that failed and left the document only in memory.
var persistFailures = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "shoutout_store_persist_failures_total",
		Help: "Total number of failed document saves.",
	},
)

func init() {
	prometheus.MustRegister(persistFailures)
}
