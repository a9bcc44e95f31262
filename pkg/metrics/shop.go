package metrics

import "github.com/prometheus/client_golang/prometheus"

// ShopMetrics counts domain outcomes that matter to the storefront.
type ShopMetrics struct {
	checkouts     *prometheus.CounterVec
	notifications *prometheus.CounterVec
}

func NewShopMetrics(reg prometheus.Registerer) *ShopMetrics {
	if reg == nil {
		return &ShopMetrics{}
	}
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkouts_total",
		Help:      "Checkout attempts by result.",
	}, []string{"result"})
	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_created_total",
		Help:      "Notifications created by type.",
	}, []string{"type"})
	reg.MustRegister(checkouts, notifications)
	return &ShopMetrics{checkouts: checkouts, notifications: notifications}
}

// IncCheckout counts a checkout attempt; result is "ok" or an error code.
func (m *ShopMetrics) IncCheckout(result string) {
	if m == nil || m.checkouts == nil {
		return
	}
	m.checkouts.WithLabelValues(normalizeLabel(result)).Inc()
}

// AddNotifications counts created notifications of one type.
func (m *ShopMetrics) AddNotifications(kind string, n int) {
	if m == nil || m.notifications == nil || n <= 0 {
		return
	}
	m.notifications.WithLabelValues(normalizeLabel(kind)).Add(float64(n))
}
