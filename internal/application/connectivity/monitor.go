// Package connectivity lleva el estado online/offline del kiosko y emite eventos
// solo en las transiciones. Las fuentes del estado son los eventos del navegador
// (POST /api/connectivity) y, opcionalmente, un sondeo activo al backend.
package connectivity

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/luxy-checkout/internal/application/ports"
	"github.com/jhoicas/luxy-checkout/pkg/logger"
)

// Event transición de conectividad.
type Event int

const (
	BecameOffline Event = iota
	BecameOnline
)

func (e Event) String() string {
	if e == BecameOnline {
		return "became-online"
	}
	return "became-offline"
}

const subscriberBuffer = 8

var _ ports.ConnectivityReader = (*Monitor)(nil)

// Monitor estado de conectividad con suscriptores por canal.
type Monitor struct {
	mu     sync.RWMutex
	online bool
	subs   []chan Event
	closed bool

	prober  ports.Prober
	metrics ports.Metrics
	log     *logger.Logger
	timeout time.Duration
}

// NewMonitor construye el monitor con el estado inicial indicado.
// prober puede ser nil: entonces solo cambian el estado las llamadas a SetOnline.
func NewMonitor(initial bool, prober ports.Prober, metrics ports.Metrics, log *logger.Logger) *Monitor {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	metrics.SetOnline(initial)
	return &Monitor{
		online:  initial,
		prober:  prober,
		metrics: metrics,
		log:     log,
		timeout: 5 * time.Second,
	}
}

// Online estado actual.
func (m *Monitor) Online() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.online
}

// SetOnline actualiza el estado y notifica a los suscriptores si hubo transición.
// Devuelve true si el estado cambió.
func (m *Monitor) SetOnline(online bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed || m.online == online {
		return false
	}
	m.online = online
	m.metrics.SetOnline(online)

	ev := BecameOffline
	if online {
		ev = BecameOnline
	}
	m.log.Info().Str("event", ev.String()).Msg("cambio de conectividad")
	for _, ch := range m.subs {
		select {
		case ch <- ev:
		default:
			m.log.Warn().Str("event", ev.String()).Msg("suscriptor lento; evento descartado")
		}
	}
	return true
}

// Subscribe devuelve un canal que recibe cada transición. Se cierra con Close.
func (m *Monitor) Subscribe() <-chan Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan Event, subscriberBuffer)
	if m.closed {
		close(ch)
		return ch
	}
	m.subs = append(m.subs, ch)
	return ch
}

// Close cierra todos los canales de suscripción; el estado queda congelado.
func (m *Monitor) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	for _, ch := range m.subs {
		close(ch)
	}
	m.subs = nil
}

// Run sondea el backend cada interval hasta que ctx se cancele.
// Sin prober o con interval <= 0 retorna de inmediato.
func (m *Monitor) Run(ctx context.Context, interval time.Duration) {
	if m.prober == nil || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.ProbeOnce(ctx)
		}
	}
}

// ProbeOnce hace un sondeo acotado y actualiza el estado con su resultado.
func (m *Monitor) ProbeOnce(ctx context.Context) bool {
	pctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	err := m.prober.Probe(pctx)
	if err != nil {
		m.log.Debug().Err(err).Msg("sondeo fallido")
	}
	m.SetOnline(err == nil)
	return err == nil
}
