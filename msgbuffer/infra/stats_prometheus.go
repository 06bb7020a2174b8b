package infra

import (
	"context"

	"message-buffer/msgbuffer/domain"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusStatsStore expõe os outcomes de submit como métricas.
// Não usa o autor como label.
type PrometheusStatsStore struct {
	submits    *prometheus.CounterVec
	bufferSize prometheus.Gauge
	msgBytes   prometheus.Histogram
}

// NewPrometheusStatsStore registra as métricas em reg
// (prometheus.DefaultRegisterer se nil).
func NewPrometheusStatsStore(reg prometheus.Registerer) (*PrometheusStatsStore, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	s := &PrometheusStatsStore{
		submits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "msgbuffer_submits_total",
				Help: "Number of message submits by outcome",
			},
			[]string{"outcome"},
		),
		bufferSize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "msgbuffer_buffer_size",
				Help: "Number of messages retained after the last accepted submit",
			},
		),
		msgBytes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "msgbuffer_message_bytes",
				Help:    "Size of submitted messages in bytes",
				Buckets: prometheus.ExponentialBuckets(16, 4, 6),
			},
		),
	}

	for _, c := range []prometheus.Collector{s.submits, s.bufferSize, s.msgBytes} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *PrometheusStatsStore) Record(_ context.Context, ev domain.StatsEvent) error {
	if ev.Outcome == "" {
		return nil
	}
	s.submits.WithLabelValues(string(ev.Outcome)).Inc()
	s.msgBytes.Observe(float64(ev.Length))
	if ev.Outcome == domain.OutcomeAccepted {
		s.bufferSize.Set(float64(ev.Count))
	}
	return nil
}
