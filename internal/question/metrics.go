package question

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	drawsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "impromptu_draws_total",
		Help: "Questions drawn, by level, kind and whether the lock window was exhausted.",
	}, []string{"level", "kind", "fallback"})

	drawNotFoundTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "impromptu_draw_not_found_total",
		Help: "Draws that found no content for the requested level.",
	}, []string{"level"})

	poolResetsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "impromptu_pool_resets_total",
		Help: "Times the question history was cleared by an administrator.",
	})
)

func recordDraw(d Draw) {
	drawsTotal.WithLabelValues(string(d.Level), d.Type, strconv.FormatBool(d.Fallback)).Inc()
}
