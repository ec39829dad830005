package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sessionsStartedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "game_sessions_started_total",
			Help: "Total number of started game sessions by mode.",
		},
		[]string{"mode"},
	)

	sessionsCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "game_sessions_completed_total",
		Help: "Total number of sessions that reached an ending.",
	})

	sessionsAbandonedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "game_sessions_abandoned_total",
		Help: "Total number of sessions abandoned by their player.",
	})

	choicesMadeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "game_choices_made_total",
			Help: "Total number of accepted advance operations by selector kind.",
		},
		[]string{"kind"},
	)
)
