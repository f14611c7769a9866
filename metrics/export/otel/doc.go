// Package otel publishes goToken lifecycle metrics through an OpenTelemetry Meter.
//
// [NewExporter] registers one Int64ObservableCounter per counter and one
// Int64ObservableGauge per latency bucket. A single callback reads the manager's
// snapshot on each collection cycle. The caller owns the MeterProvider.
package otel
