// telemetry records metrics for each step of a deployment run.
// Supported metrics includes:
// - started count(*_started_total)
// - success/error count(*_handled_total)
// - latency histogram(*_handling_seconds_bucket)
//
// A run lives shorter than any scrape interval, so metrics are pushed to a Prometheus push gateway when the run ends.
package telemetry
