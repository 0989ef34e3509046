/*
Package observability bridges the manager's lifecycle hooks to Prometheus.

It is optional: the manager itself has no metrics dependency. Hosts that
want operation counters and latency histograms register a Metrics value and
pass its Hooks to the manager.
*/
package observability
