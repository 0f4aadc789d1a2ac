package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// OrderMetrics 汇集订单核心流程的业务指标。
type OrderMetrics struct {
	OrdersPlaced   prometheus.Counter
	OrdersRejected *prometheus.CounterVec
	PlaceLatencyMS prometheus.Histogram
}

func NewOrderMetrics(service string) *OrderMetrics {
	placed := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "freshcart",
		Subsystem: service,
		Name:      "orders_placed_total",
		Help:      "Total number of successfully placed orders.",
	})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "freshcart",
		Subsystem: service,
		Name:      "orders_rejected_total",
		Help:      "Total number of rejected order requests.",
	}, []string{"reason"})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "freshcart",
		Subsystem: service,
		Name:      "order_place_duration_ms",
		Help:      "Order placement latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	})

	prometheus.MustRegister(placed, rejected, latency)
	return &OrderMetrics{OrdersPlaced: placed, OrdersRejected: rejected, PlaceLatencyMS: latency}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
