package metrics

import (
	"errors"
	"sync"
	"time"

	"github.com/SscSPs/bookkeeping_engine/internal/apperrors"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "bookkeeping"

// Result label values.
const (
	ResultSuccess           = "success"
	ResultImbalanced        = "imbalanced"
	ResultCrossTenant       = "cross_tenant"
	ResultAlreadyReversed   = "already_reversed"
	ResultSequenceExhausted = "sequence_exhausted"
	ResultInvalidInput      = "invalid_input"
	ResultNotFound          = "not_found"
	ResultInvalidState      = "invalid_state"
	ResultError             = "error"
)

// EngineMetrics captures posting engine health signals.
type EngineMetrics struct {
	postings            *prometheus.CounterVec
	reversals           *prometheus.CounterVec
	sequenceAllocations *prometheus.CounterVec
	taxCalculations     *prometheus.CounterVec
	operationDuration   *prometheus.HistogramVec
}

var (
	engineMetricsOnce sync.Once
	engineMetrics     *EngineMetrics
)

// Engine returns the singleton metrics registered on the default registerer.
func Engine() *EngineMetrics {
	engineMetricsOnce.Do(func() {
		engineMetrics = NewEngineMetrics(prometheus.DefaultRegisterer)
	})
	return engineMetrics
}

// ResetEngineMetricsForTest resets the singleton for tests.
func ResetEngineMetricsForTest() {
	engineMetricsOnce = sync.Once{}
	engineMetrics = nil
}

// NewEngineMetrics builds and registers the collectors on registerer.
func NewEngineMetrics(registerer prometheus.Registerer) *EngineMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	m := &EngineMetrics{
		postings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "journal_postings_total",
			Help:      "Document postings by document type and result.",
		}, []string{"document_type", "result"}),
		reversals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "journal_reversals_total",
			Help:      "Journal entry reversals by result.",
		}, []string{"result"}),
		sequenceAllocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sequence_allocations_total",
			Help:      "Document number allocations by document type and result.",
		}, []string{"document_type", "result"}),
		taxCalculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tax_calculations_total",
			Help:      "Document tax calculations by tax mode and result.",
		}, []string{"mode", "result"}),
		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of posting engine operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	registerer.MustRegister(m.postings, m.reversals, m.sequenceAllocations, m.taxCalculations, m.operationDuration)
	return m
}

func (m *EngineMetrics) RecordPosting(documentType string, err error) {
	if m == nil {
		return
	}
	m.postings.WithLabelValues(documentType, ResultFor(err)).Inc()
}

func (m *EngineMetrics) RecordReversal(err error) {
	if m == nil {
		return
	}
	m.reversals.WithLabelValues(ResultFor(err)).Inc()
}

func (m *EngineMetrics) RecordSequenceAllocation(documentType string, err error) {
	if m == nil {
		return
	}
	m.sequenceAllocations.WithLabelValues(documentType, ResultFor(err)).Inc()
}

func (m *EngineMetrics) RecordTaxCalculation(mode string, err error) {
	if m == nil {
		return
	}
	m.taxCalculations.WithLabelValues(mode, ResultFor(err)).Inc()
}

// ObserveDuration records how long operation took since start.
func (m *EngineMetrics) ObserveDuration(operation string, start time.Time) {
	if m == nil {
		return
	}
	m.operationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// ResultFor classifies err into a bounded label value.
func ResultFor(err error) string {
	switch {
	case err == nil:
		return ResultSuccess
	case errors.Is(err, apperrors.ErrImbalancedEntry):
		return ResultImbalanced
	case errors.Is(err, apperrors.ErrCrossTenantAccess):
		return ResultCrossTenant
	case errors.Is(err, apperrors.ErrAlreadyReversed):
		return ResultAlreadyReversed
	case errors.Is(err, apperrors.ErrSequenceExhausted):
		return ResultSequenceExhausted
	case errors.Is(err, apperrors.ErrInvalidState):
		return ResultInvalidState
	case errors.Is(err, apperrors.ErrNotFound):
		return ResultNotFound
	case errors.Is(err, apperrors.ErrParse),
		errors.Is(err, apperrors.ErrPrecision),
		errors.Is(err, apperrors.ErrNegativeNotAllowed),
		errors.Is(err, apperrors.ErrUnknownTaxCode),
		errors.Is(err, apperrors.ErrExemptionMisuse),
		errors.Is(err, apperrors.ErrValidation):
		return ResultInvalidInput
	default:
		return ResultError
	}
}
