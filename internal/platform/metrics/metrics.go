package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder receives venue events. The service calls it after each state change.
type Recorder interface {
	SessionStarted(table int)
	SessionEnded(table int, minutes int64, cost float64)
}

// Prometheus exports venue activity as Prometheus collectors.
type Prometheus struct {
	occupied       *prometheus.GaugeVec
	sessionsTotal  *prometheus.CounterVec
	earningsTotal  *prometheus.CounterVec
	sessionMinutes prometheus.Histogram
}

// NewPrometheus creates the collectors and registers them with reg.
func NewPrometheus(reg prometheus.Registerer) (*Prometheus, error) {
	p := &Prometheus{
		occupied: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "anticafe_table_occupied",
				Help: "1 when the table is occupied, 0 when it is free",
			},
			[]string{"table"},
		),
		sessionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "anticafe_sessions_total",
				Help: "Completed sessions per table",
			},
			[]string{"table"},
		),
		earningsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "anticafe_earnings_total",
				Help: "Billed amount of completed sessions per table",
			},
			[]string{"table"},
		),
		sessionMinutes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "anticafe_session_minutes",
				Help:    "Billed whole minutes per completed session",
				Buckets: []float64{1, 5, 15, 30, 60, 120, 240, 480},
			},
		),
	}
	for _, c := range []prometheus.Collector{p.occupied, p.sessionsTotal, p.earningsTotal, p.sessionMinutes} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Prometheus) SessionStarted(table int) {
	p.occupied.WithLabelValues(strconv.Itoa(table)).Set(1)
}

func (p *Prometheus) SessionEnded(table int, minutes int64, cost float64) {
	label := strconv.Itoa(table)
	p.occupied.WithLabelValues(label).Set(0)
	p.sessionsTotal.WithLabelValues(label).Inc()
	if cost > 0 {
		p.earningsTotal.WithLabelValues(label).Add(cost)
	}
	p.sessionMinutes.Observe(float64(minutes))
}

type Noop struct{}

func (Noop) SessionStarted(int)               {}
func (Noop) SessionEnded(int, int64, float64) {}
