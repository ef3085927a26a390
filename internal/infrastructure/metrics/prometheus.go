// Package metrics expone la actividad del kiosko en formato Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/luxy-checkout/internal/application/ports"
)

const namespace = "luxy_checkout"

var _ ports.Metrics = (*Prometheus)(nil)

// Prometheus implementa ports.Metrics sobre un registro propio (sin colisiones con el global).
type Prometheus struct {
	registry *prometheus.Registry

	deliveries   *prometheus.CounterVec
	syncRuns     prometheus.Counter
	syncAttempts prometheus.Counter
	syncSuccess  prometheus.Counter
	pending      prometheus.Gauge
	online       prometheus.Gauge
}

// NewPrometheus registra las métricas con la etiqueta constante device.
func NewPrometheus(deviceID string) *Prometheus {
	labels := prometheus.Labels{"device": deviceID}
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "deliveries_total",
			Help:        "Intentos de entrega al backend por resultado.",
			ConstLabels: labels,
		}, []string{"result"}),
		syncRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "sync_runs_total",
			Help:        "Sincronizaciones de la cola de pendientes ejecutadas.",
			ConstLabels: labels,
		}),
		syncAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "sync_attempted_total",
			Help:        "Retiros reenviados durante sincronizaciones.",
			ConstLabels: labels,
		}),
		syncSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "sync_succeeded_total",
			Help:        "Retiros confirmados durante sincronizaciones.",
			ConstLabels: labels,
		}),
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "pending_checkouts",
			Help:        "Retiros en la cola de pendientes.",
			ConstLabels: labels,
		}),
		online: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "online",
			Help:        "1 si el kiosko se cree conectado.",
			ConstLabels: labels,
		}),
	}
	p.registry.MustRegister(p.deliveries, p.syncRuns, p.syncAttempts, p.syncSuccess, p.pending, p.online)
	return p
}

func (p *Prometheus) ObserveDelivery(result string) { p.deliveries.WithLabelValues(result).Inc() }

func (p *Prometheus) ObserveSync(attempted, succeeded int) {
	p.syncRuns.Inc()
	p.syncAttempts.Add(float64(attempted))
	p.syncSuccess.Add(float64(succeeded))
}

func (p *Prometheus) SetPending(n int) { p.pending.Set(float64(n)) }

func (p *Prometheus) SetOnline(online bool) {
	if online {
		p.online.Set(1)
		return
	}
	p.online.Set(0)
}

// Handler handler HTTP de /metrics.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

// Registry registro subyacente (tests).
func (p *Prometheus) Registry() *prometheus.Registry { return p.registry }
