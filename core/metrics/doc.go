// Package metrics records the outcome of a sync run as Prometheus gauges and
// writes them to a node-exporter textfile.
package metrics
