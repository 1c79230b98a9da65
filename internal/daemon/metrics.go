package daemon

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/theirongolddev/cafflog/internal/model"
)

// metrics holds the daemon's Prometheus collectors on a private registry so
// several services can coexist in one process.
type metrics struct {
	reg *prometheus.Registry

	drinksLogged   *prometheus.CounterVec
	rejectedDrinks prometheus.Counter
	rollovers      prometheus.Counter
	todayMg        prometheus.Gauge
	goalMg         prometheus.Gauge
	overLimit      prometheus.Gauge
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &metrics{
		reg: reg,
		drinksLogged: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cafflog_drinks_logged_total",
			Help: "Drinks logged since the daemon started, by category.",
		}, []string{"drink"}),
		rejectedDrinks: f.NewCounter(prometheus.CounterOpts{
			Name: "cafflog_rejected_drinks_total",
			Help: "Log requests rejected for an invalid drink, unit or volume.",
		}),
		rollovers: f.NewCounter(prometheus.CounterOpts{
			Name: "cafflog_rollovers_total",
			Help: "Day-boundary resets observed by the daemon.",
		}),
		todayMg: f.NewGauge(prometheus.GaugeOpts{
			Name: "cafflog_caffeine_today_mg",
			Help: "Estimated caffeine logged today in milligrams.",
		}),
		goalMg: f.NewGauge(prometheus.GaugeOpts{
			Name: "cafflog_goal_mg",
			Help: "Daily caffeine goal in milligrams, 0 when unset.",
		}),
		overLimit: f.NewGauge(prometheus.GaugeOpts{
			Name: "cafflog_over_limit",
			Help: "1 when today's total exceeds the goal.",
		}),
	}
}

func (m *metrics) observe(snap model.Snapshot) {
	m.todayMg.Set(float64(snap.TotalMg))
	if snap.GoalSet {
		m.goalMg.Set(float64(snap.Goal))
	} else {
		m.goalMg.Set(0)
	}
	if snap.OverLimit {
		m.overLimit.Set(1)
	} else {
		m.overLimit.Set(0)
	}
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
