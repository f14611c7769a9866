// Package prometheus renders goToken lifecycle metrics in the Prometheus text
// exposition format.
//
// [NewExporter] wraps a *goToken.Manager and serves every gotoken_*_total counter,
// the gotoken_verify_latency_seconds histogram, and gotoken_audit_dropped_total.
// Nothing is registered globally; callers mount [Exporter.Handler] where they want it.
package prometheus
