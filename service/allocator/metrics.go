package allocator

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	allocations *prometheus.CounterVec
	actions     *prometheus.CounterVec
}

func (m *metrics) allocation(status Status) {
	if m == nil {
		return
	}
	m.allocations.WithLabelValues(string(status)).Inc()
}

func (m *metrics) action(action string, outcome Outcome) {
	if m == nil {
		return
	}
	m.actions.WithLabelValues(action, string(outcome)).Inc()
}

func newMetrics(registerer prometheus.Registerer) (*metrics, error) {
	if registerer == nil {
		return nil, nil
	}
	ret := &metrics{
		allocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "arbiter_allocation_total",
			Help: "Allocation attempts by decision status.",
		}, []string{"status"}),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "arbiter_action_total",
			Help: "Resource actions by outcome.",
		}, []string{"action", "outcome"}),
	}
	var err error
	if ret.allocations, err = register(registerer, ret.allocations); err != nil {
		return nil, err
	}
	if ret.actions, err = register(registerer, ret.actions); err != nil {
		return nil, err
	}
	return ret, nil
}

// register reuses a collector already registered by another Service on the same registerer
func register(registerer prometheus.Registerer, collector *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	err := registerer.Register(collector)
	if err == nil {
		return collector, nil
	}
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		if existing, ok := already.ExistingCollector.(*prometheus.CounterVec); ok {
			return existing, nil
		}
	}
	return nil, err
}
