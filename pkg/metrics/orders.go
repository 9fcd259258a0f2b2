package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/AliCapone21/nonkabob-guliston/pkg/enums"
)

// OrderMetrics tracks the order pipeline: submissions, status moves, and
// the realtime fan-out that drives dashboard refetches.
type OrderMetrics struct {
	submitted   *prometheus.CounterVec
	transitions *prometheus.CounterVec
	published   prometheus.Counter
	wsClients   prometheus.Gauge
}

// NewOrderMetrics registers the order metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	submitted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_submitted_total",
		Help: "Order submissions by outcome.",
	}, []string{"outcome"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_transitions_total",
		Help: "Order status transitions by from/to state.",
	}, []string{"from", "to"})
	published := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "realtime_events_published_total",
		Help: "Change events published to the realtime feed.",
	})
	wsClients := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "realtime_ws_clients",
		Help: "Dashboard websocket clients currently connected.",
	})
	reg.MustRegister(submitted, transitions, published, wsClients)
	return &OrderMetrics{
		submitted:   submitted,
		transitions: transitions,
		published:   published,
		wsClients:   wsClients,
	}
}

// IncSubmitted counts one order submission with the given outcome label.
func (o *OrderMetrics) IncSubmitted(outcome string) {
	if o == nil || o.submitted == nil {
		return
	}
	o.submitted.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncTransition counts one status move.
func (o *OrderMetrics) IncTransition(from, to enums.OrderStatus) {
	if o == nil || o.transitions == nil {
		return
	}
	o.transitions.WithLabelValues(from.String(), to.String()).Inc()
}

// IncPublished counts one realtime event hitting the feed.
func (o *OrderMetrics) IncPublished() {
	if o == nil || o.published == nil {
		return
	}
	o.published.Inc()
}

// WSClientConnected and WSClientDisconnected track the live client gauge.
func (o *OrderMetrics) WSClientConnected() {
	if o == nil || o.wsClients == nil {
		return
	}
	o.wsClients.Inc()
}

func (o *OrderMetrics) WSClientDisconnected() {
	if o == nil || o.wsClients == nil {
		return
	}
	o.wsClients.Dec()
}
