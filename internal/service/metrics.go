package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Update outcomes recorded on credence_belief_updates_total.
const (
	outcomeOK       = "ok"
	outcomeZeroMass = "zero_mass"
	outcomeInvalid  = "invalid"
)

var (
	beliefUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "credence_belief_updates_total",
		Help: "Evidence batches folded into session beliefs, by outcome",
	}, []string{"outcome"})

	updateDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "credence_update_duration_seconds",
		Help:    "Time to fold one evidence batch into a session belief",
		Buckets: []float64{0.000001, 0.00001, 0.0001, 0.001, 0.01},
	})

	sessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "credence_sessions_active",
		Help: "Belief sessions currently held in memory",
	})
)
