// Package metrics provides observability hooks for sync runs, context
// rendering and HTTP requests.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no nil checks are needed at call sites:
//
//	s := syncer.New(sources, site, syncer.WithRecorder(metrics.NoopRecorder{}))
//
// When metrics are enabled the server swaps in a PrometheusRecorder backed by
// a dedicated registry and exposes it through HTTPHandler.
package metrics
