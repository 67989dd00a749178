package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// QuoteMetrics counts cart actions and rendered quote messages.
type QuoteMetrics struct {
	actions          *prometheus.CounterVec
	messages         *prometheus.CounterVec
	invalidSnapshots prometheus.Counter
}

// NewQuoteMetrics registers the quote metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewQuoteMetrics(reg prometheus.Registerer) *QuoteMetrics {
	if reg == nil {
		return &QuoteMetrics{}
	}
	actions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quote_cart_actions_total",
		Help: "Quote cart actions by action and outcome.",
	}, []string{"action", "outcome"})
	messages := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quote_messages_total",
		Help: "Rendered quote messages by kind.",
	}, []string{"kind"})
	invalid := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "quote_invalid_snapshots_total",
		Help: "Lines priced at zero because the product snapshot was incomplete.",
	})
	reg.MustRegister(actions, messages, invalid)
	return &QuoteMetrics{
		actions:          actions,
		messages:         messages,
		invalidSnapshots: invalid,
	}
}

// IncAction records one cart action and its outcome.
func (q *QuoteMetrics) IncAction(action, outcome string) {
	if q == nil || q.actions == nil {
		return
	}
	q.actions.WithLabelValues(normalizeLabel(action), normalizeLabel(outcome)).Inc()
}

// IncMessage records a rendered message ("cart" or "package").
func (q *QuoteMetrics) IncMessage(kind string) {
	if q == nil || q.messages == nil {
		return
	}
	q.messages.WithLabelValues(normalizeLabel(kind)).Inc()
}

func (q *QuoteMetrics) IncInvalidSnapshot() {
	if q == nil || q.invalidSnapshots == nil {
		return
	}
	q.invalidSnapshots.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
