package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	TenantsCreated    prometheus.Counter
	TenantsDeleted    prometheus.Counter
	StatusTransitions *prometheus.CounterVec
	BulkBatchSize     prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		TenantsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tenantadmin_tenants_created_total",
			Help: "Total number of tenants created",
		}),
		TenantsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tenantadmin_tenants_deleted_total",
			Help: "Total number of tenants deleted",
		}),
		StatusTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tenantadmin_status_transitions_total",
			Help: "Total number of tenant status transitions, labeled by target status",
		}, []string{"status"}),
		BulkBatchSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tenantadmin_bulk_batch_size",
			Help:    "Size of bulk status/delete batches",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250},
		}),
	}
}

func (m *Metrics) IncrementTenantsCreated() {
	m.TenantsCreated.Inc()
}

func (m *Metrics) AddTenantsDeleted(count int64) {
	m.TenantsDeleted.Add(float64(count))
}

func (m *Metrics) IncrementStatusTransition(status string) {
	m.StatusTransitions.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveBulkBatchSize(size int) {
	m.BulkBatchSize.Observe(float64(size))
}
