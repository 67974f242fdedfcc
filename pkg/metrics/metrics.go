// Package metrics exposes Prometheus instrumentation for the generation pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels how a generation call finished.
type Outcome string

const (
	OutcomePrimary  Outcome = "primary"
	OutcomeRepaired Outcome = "repaired"
	OutcomeFallback Outcome = "fallback"
	OutcomeFailed   Outcome = "failed"
)

// Recorder holds the pipeline collectors on its own registry.
type Recorder struct {
	registry *prometheus.Registry

	generations    *prometheus.CounterVec
	keywordSources *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	quality        prometheus.Histogram
}

// NewRecorder creates a Recorder with a fresh registry that also carries
// the Go runtime and process collectors.
func NewRecorder() (r *Recorder) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	factory := promauto.With(reg)

	r = &Recorder{
		registry: reg,
		generations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lucidum_generations_total",
				Help: "Cover letter generations by outcome",
			},
			[]string{"outcome", "role"},
		),
		keywordSources: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lucidum_keyword_extractions_total",
				Help: "Keyword extractions by source",
			},
			[]string{"source"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lucidum_generation_duration_seconds",
				Help:    "Duration of cover letter generation in seconds",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
			},
			[]string{"outcome"},
		),
		quality: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "lucidum_quality_score",
				Help:    "Quality score of returned cover letters",
				Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
			},
		),
	}

	return r
}

// ObserveGeneration records one finished generation.
func (r *Recorder) ObserveGeneration(outcome Outcome, role string, elapsed time.Duration, quality float64) {
	r.generations.WithLabelValues(string(outcome), role).Inc()
	r.duration.WithLabelValues(string(outcome)).Observe(elapsed.Seconds())
	r.quality.Observe(quality)
}

// ObserveKeywordSource records where a keyword list came from.
func (r *Recorder) ObserveKeywordSource(source string) {
	r.keywordSources.WithLabelValues(source).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() (h http.Handler) {
	h = promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
	return h
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() (reg *prometheus.Registry) {
	reg = r.registry
	return reg
}
