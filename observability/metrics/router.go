package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type RouterMetrics struct {
	transfersRouted  prometheus.Counter
	aliasesClaimed   *prometheus.CounterVec
	tokensRegistered prometheus.Counter
	callsRejected    *prometheus.CounterVec
}

var (
	routerOnce     sync.Once
	routerRegistry *RouterMetrics
)

func Router() *RouterMetrics {
	routerOnce.Do(func() {
		routerRegistry = &RouterMetrics{
			transfersRouted: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "router_transfers_routed_total",
				Help: "Count of deposit notifications split and forwarded.",
			}),
			aliasesClaimed: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "router_aliases_claimed_total",
				Help: "Count of alias claims by kind (custom or random).",
			}, []string{"kind"}),
			tokensRegistered: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "router_tokens_registered_total",
				Help: "Count of token contracts added to the trusted registry.",
			}),
			callsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "router_calls_rejected_total",
				Help: "Count of rejected calls by operation.",
			}, []string{"op"}),
		}
		prometheus.MustRegister(
			routerRegistry.transfersRouted,
			routerRegistry.aliasesClaimed,
			routerRegistry.tokensRegistered,
			routerRegistry.callsRejected,
		)
	})
	return routerRegistry
}

func (m *RouterMetrics) ObserveTransferRouted() {
	if m == nil {
		return
	}
	m.transfersRouted.Inc()
}

func (m *RouterMetrics) ObserveAliasClaimed(kind string) {
	if m == nil {
		return
	}
	if kind == "" {
		kind = "unknown"
	}
	m.aliasesClaimed.WithLabelValues(kind).Inc()
}

func (m *RouterMetrics) ObserveTokenRegistered() {
	if m == nil {
		return
	}
	m.tokensRegistered.Inc()
}

func (m *RouterMetrics) ObserveCallRejected(op string) {
	if m == nil {
		return
	}
	if op == "" {
		op = "unknown"
	}
	m.callsRejected.WithLabelValues(op).Inc()
}
