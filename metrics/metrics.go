// Package metrics records what the analysis did: how many cross-chain
// messages each parser extracted and how each destination simulation ended.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const Namespace = "op_seatbelt"

type Metricer interface {
	RecordMessagesExtracted(parser string, count int)
	RecordDestinationSimulation(chainID string, status string)
}

type Metrics struct {
	messagesExtracted      *prometheus.CounterVec
	destinationSimulations *prometheus.CounterVec
}

var _ Metricer = (*Metrics)(nil)

func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)
	return &Metrics{
		messagesExtracted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "messages_extracted_total",
			Help:      "Cross-chain messages extracted from source simulations",
		}, []string{"parser"}),
		destinationSimulations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "destination_simulations_total",
			Help:      "Destination-chain re-simulations by outcome",
		}, []string{"chain_id", "status"}),
	}
}

func (m *Metrics) RecordMessagesExtracted(parser string, count int) {
	m.messagesExtracted.WithLabelValues(parser).Add(float64(count))
}

func (m *Metrics) RecordDestinationSimulation(chainID string, status string) {
	m.destinationSimulations.WithLabelValues(chainID, status).Inc()
}

type noopMetricer struct{}

// NoopMetrics discards all recordings.
var NoopMetrics Metricer = &noopMetricer{}

func (*noopMetricer) RecordMessagesExtracted(string, int) {}
func (*noopMetricer) RecordDestinationSimulation(string, string) {}
