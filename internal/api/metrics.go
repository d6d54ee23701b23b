package api

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type amendmentMetrics struct {
	created prometheus.Counter
	updated prometheus.Counter
	deleted prometheus.Counter
	linked  prometheus.Counter
}

var (
	amendmentMetricsOnce sync.Once
	amendmentMetricsInst *amendmentMetrics
)

// globalAmendmentMetrics registers the operation counters once, however many
// routers the process builds.
func globalAmendmentMetrics() *amendmentMetrics {
	amendmentMetricsOnce.Do(func() {
		amendmentMetricsInst = newAmendmentMetrics()
	})
	return amendmentMetricsInst
}

func newAmendmentMetrics() *amendmentMetrics {
	return &amendmentMetrics{
		created: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "amendtrack",
			Subsystem: "amendments",
			Name:      "created_total",
			Help:      "Total amendments created",
		}),
		updated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "amendtrack",
			Subsystem: "amendments",
			Name:      "updated_total",
			Help:      "Total amendment updates applied, bulk members included",
		}),
		deleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "amendtrack",
			Subsystem: "amendments",
			Name:      "deleted_total",
			Help:      "Total amendments deleted",
		}),
		linked: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "amendtrack",
			Subsystem: "amendments",
			Name:      "links_created_total",
			Help:      "Total amendment links created",
		}),
	}
}
