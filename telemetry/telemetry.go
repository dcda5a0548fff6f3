package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector captures telemetry events emitted by the adapter.
//
// Implementations may forward metrics to Prometheus, loggers or other
// monitoring systems. They should be inexpensive to call because hooks are
// executed inline with factory operations and message flow.
type Collector interface {
	IncOperation(operation string)
	IncOperationError(operation string)
	SetArtifacts(count int)
}

type noopCollector struct{}

// Noop returns a collector that discards all metrics.
func Noop() Collector {
	return noopCollector{}
}

func (noopCollector) IncOperation(string)      {}
func (noopCollector) IncOperationError(string) {}
func (noopCollector) SetArtifacts(int)         {}

// PrometheusCollector exposes telemetry counters via Prometheus.
type PrometheusCollector struct {
	operations      *prometheus.CounterVec
	operationErrors *prometheus.CounterVec
	artifacts       prometheus.Gauge
}

var (
	operationCounter      *prometheus.CounterVec
	operationCounterLock  sync.Mutex
	operationErrCounter   *prometheus.CounterVec
	operationErrLock      sync.Mutex
	artifactGauge         prometheus.Gauge
	artifactGaugeLock     sync.Mutex
)

// NewPrometheusCollector registers the required metrics with the provided registerer.
func NewPrometheusCollector(reg prometheus.Registerer) (*PrometheusCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	operationCounterLock.Lock()
	if operationCounter == nil {
		counter := prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jms_adapter_operations_total",
			Help: "Number of factory operations performed, per operation kind.",
		}, []string{"operation"})
		if err := reg.Register(counter); err != nil {
			if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
				if existing, ok := already.ExistingCollector.(*prometheus.CounterVec); ok {
					operationCounter = existing
				} else {
					operationCounterLock.Unlock()
					return nil, err
				}
			} else {
				operationCounterLock.Unlock()
				return nil, err
			}
		} else {
			operationCounter = counter
		}
	}
	operationCounterLock.Unlock()

	operationErrLock.Lock()
	if operationErrCounter == nil {
		counter := prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jms_adapter_operation_errors_total",
			Help: "Number of failed factory operations, per operation kind.",
		}, []string{"operation"})
		if err := reg.Register(counter); err != nil {
			if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
				if existing, ok := already.ExistingCollector.(*prometheus.CounterVec); ok {
					operationErrCounter = existing
				} else {
					operationErrLock.Unlock()
					return nil, err
				}
			} else {
				operationErrLock.Unlock()
				return nil, err
			}
		} else {
			operationErrCounter = counter
		}
	}
	operationErrLock.Unlock()

	artifactGaugeLock.Lock()
	if artifactGauge == nil {
		gauge := prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "jms_adapter_boundary_artifacts",
			Help: "Number of provider artifacts loaded into the boundary.",
		})
		if err := reg.Register(gauge); err != nil {
			if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
				if existing, ok := already.ExistingCollector.(prometheus.Gauge); ok {
					artifactGauge = existing
				} else {
					artifactGaugeLock.Unlock()
					return nil, err
				}
			} else {
				artifactGaugeLock.Unlock()
				return nil, err
			}
		} else {
			artifactGauge = gauge
		}
	}
	artifactGaugeLock.Unlock()

	return &PrometheusCollector{
		operations:      operationCounter,
		operationErrors: operationErrCounter,
		artifacts:       artifactGauge,
	}, nil
}

// IncOperation increments the counter for the given operation kind.
func (p *PrometheusCollector) IncOperation(operation string) {
	if p == nil || p.operations == nil {
		return
	}
	p.operations.WithLabelValues(operation).Inc()
}

// IncOperationError records a failed operation of the given kind.
func (p *PrometheusCollector) IncOperationError(operation string) {
	if p == nil || p.operationErrors == nil {
		return
	}
	p.operationErrors.WithLabelValues(operation).Inc()
}

// SetArtifacts updates the gauge tracking loaded provider artifacts.
func (p *PrometheusCollector) SetArtifacts(count int) {
	if p == nil || p.artifacts == nil {
		return
	}
	p.artifacts.Set(float64(count))
}
