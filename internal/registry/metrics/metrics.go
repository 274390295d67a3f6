package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the registry module.
type Metrics struct {
	AgreementsCreated prometheus.Counter
	AgreementsUpdated prometheus.Counter

	// Admission failures by rejection reason (error code)
	AdmissionRejected *prometheus.CounterVec

	FeeTransfers prometheus.Counter

	CreateLatency prometheus.Histogram
	UpdateLatency prometheus.Histogram
}

// New creates a new Metrics instance with all registry module metrics registered.
func New() *Metrics {
	return &Metrics{
		AgreementsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sponsorreg_agreements_created_total",
			Help: "Total number of agreements admitted into the registry",
		}),
		AgreementsUpdated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sponsorreg_agreements_updated_total",
			Help: "Total number of successful agreement updates",
		}),
		AdmissionRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sponsorreg_admission_rejected_total",
			Help: "Total rejected creation attempts by reason",
		}, []string{"reason"}),
		FeeTransfers: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sponsorreg_fee_transfers_total",
			Help: "Total creation fee transfers executed",
		}),
		CreateLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "sponsorreg_create_agreement_duration_seconds",
			Help:    "Duration of the full admission protocol including the fee transfer",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		UpdateLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "sponsorreg_update_agreement_duration_seconds",
			Help:    "Duration of agreement update operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementCreated records a successful admission.
func (m *Metrics) IncrementCreated() {
	if m != nil {
		m.AgreementsCreated.Inc()
	}
}

// IncrementUpdated records a successful update.
func (m *Metrics) IncrementUpdated() {
	if m != nil {
		m.AgreementsUpdated.Inc()
	}
}

// IncrementRejected records a rejected creation attempt by reason.
func (m *Metrics) IncrementRejected(reason string) {
	if m != nil {
		m.AdmissionRejected.WithLabelValues(reason).Inc()
	}
}

// IncrementFeeTransfers records one executed creation fee transfer.
func (m *Metrics) IncrementFeeTransfers() {
	if m != nil {
		m.FeeTransfers.Inc()
	}
}

// ObserveCreate records the duration of a creation attempt.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveCreate(start time.Time) {
	if m != nil {
		m.CreateLatency.Observe(time.Since(start).Seconds())
	}
}

// ObserveUpdate records the duration of an update attempt.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveUpdate(start time.Time) {
	if m != nil {
		m.UpdateLatency.Observe(time.Since(start).Seconds())
	}
}
