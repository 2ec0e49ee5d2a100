// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package metrics counts cache and upstream activity for a single dexctl
// invocation. Counters live in a private registry and are written out in
// the Prometheus text format when --metrics is given.
package metrics

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const namespace = "dexctl"

// Recorder implements cache.Metrics and records upstream fetches.
type Recorder struct {
	registry *prometheus.Registry

	cacheHits          *prometheus.CounterVec
	cacheMisses        *prometheus.CounterVec
	cacheStores        *prometheus.CounterVec
	cacheInvalidations *prometheus.CounterVec
	fetchTotal         *prometheus.CounterVec
	fetchDuration      *prometheus.HistogramVec
}

// New returns a Recorder with all collectors registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		cacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_hits_total",
				Help:      "Total cache hits",
			},
			[]string{"kind"},
		),
		cacheMisses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_misses_total",
				Help:      "Total cache misses",
			},
			[]string{"kind"},
		),
		cacheStores: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_stores_total",
				Help:      "Total values stored in the cache",
			},
			[]string{"kind"},
		),
		cacheInvalidations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_invalidations_total",
				Help:      "Total cache entries removed by invalidation",
			},
			[]string{"kind"},
		),
		fetchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "upstream_requests_total",
				Help:      "Total requests sent to the catalog API",
			},
			[]string{"kind", "code"},
		),
		fetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "upstream_request_duration_seconds",
				Help:      "Duration of requests sent to the catalog API",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
	}

	r.registry.MustRegister(
		r.cacheHits,
		r.cacheMisses,
		r.cacheStores,
		r.cacheInvalidations,
		r.fetchTotal,
		r.fetchDuration,
	)
	return r
}

func (r *Recorder) Hit(key string)        { r.cacheHits.WithLabelValues(Kind(key)).Inc() }
func (r *Recorder) Miss(key string)       { r.cacheMisses.WithLabelValues(Kind(key)).Inc() }
func (r *Recorder) Store(key string)      { r.cacheStores.WithLabelValues(Kind(key)).Inc() }
func (r *Recorder) Invalidate(key string) { r.cacheInvalidations.WithLabelValues(Kind(key)).Inc() }

// ObserveFetch records one upstream request. code is the HTTP status, or 0
// when no response was received.
func (r *Recorder) ObserveFetch(rawURL string, code int, d time.Duration) {
	kind := Kind(rawURL)
	r.fetchTotal.WithLabelValues(kind, fmt.Sprint(code)).Inc()
	r.fetchDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// Registry exposes the underlying registry, mostly for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteText writes every collected family in the Prometheus text format.
func (r *Recorder) WriteText(w io.Writer) error {
	families, err := r.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	return nil
}

// Kind reduces a catalog URL to its resource kind, e.g. "pokemon" or
// "pokemon-species", so label cardinality stays small.
func Kind(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "unknown"
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, s := range segments {
		if s == "v2" && i+1 < len(segments) {
			return segments[i+1]
		}
	}
	if len(segments) > 0 && segments[0] != "" {
		return segments[0]
	}
	return "unknown"
}
