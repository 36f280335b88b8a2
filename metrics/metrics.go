// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics exposes Prometheus counters for events and ballots.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielhkuo/decentra-vote/d21"
)

const namespace = "decentra_vote"

// Result label values besides d21 error codes.
const (
	ResultAccepted = "accepted"
	ResultError    = "error"
)

var (
	Registry = prometheus.NewRegistry()

	EventsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_created_total",
		Help:      "Number of D21 events created.",
	})

	Ballots = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ballots_total",
		Help:      "Ballots cast, labelled by outcome (accepted, a rule code, or error).",
	}, []string{"result"})

	CastDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "cast_vote_duration_seconds",
		Help:      "Time spent validating, tallying and storing a ballot.",
		Buckets:   prometheus.DefBuckets,
	})
)

func init() {
	Registry.MustRegister(
		EventsCreated,
		Ballots,
		CastDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// ResultLabel maps a cast outcome to its result label.
func ResultLabel(err error) string {
	if err == nil {
		return ResultAccepted
	}
	if code := d21.CodeOf(err); code != "" {
		return code
	}
	return ResultError
}

// ObserveBallot records the outcome and duration of one cast.
func ObserveBallot(err error, started time.Time) {
	Ballots.WithLabelValues(ResultLabel(err)).Inc()
	CastDuration.Observe(time.Since(started).Seconds())
}
