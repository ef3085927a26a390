package checkout

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/jhoicas/luxy-checkout/internal/application/ports"
	"github.com/jhoicas/luxy-checkout/internal/domain/entity"
	"github.com/jhoicas/luxy-checkout/pkg/logger"
)

// SyncResult resumen de una sincronización.
type SyncResult struct {
	Attempted int `json:"attempted"`
	Succeeded int `json:"succeeded"`
}

// Synchronizer reenvía la cola de pendientes en orden FIFO.
// Se intentan todos los registros: un fallo no bloquea a los siguientes.
type Synchronizer struct {
	queue     *PendingQueue
	deliverer ports.CheckoutDeliverer
	notifier  ports.Notifier
	metrics   ports.Metrics
	limiter   *rate.Limiter
	log       *logger.Logger
	timeout   time.Duration

	running sync.Mutex
	rerun   atomic.Bool // pedida mientras otra corría; quien corre hace otra pasada
}

// NewSynchronizer construye el sincronizador. ratePerSecond <= 0 desactiva el límite de ritmo.
func NewSynchronizer(
	queue *PendingQueue,
	deliverer ports.CheckoutDeliverer,
	notifier ports.Notifier,
	metrics ports.Metrics,
	log *logger.Logger,
	timeout time.Duration,
	ratePerSecond float64,
) *Synchronizer {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	limit := rate.Inf
	if ratePerSecond > 0 {
		limit = rate.Limit(ratePerSecond)
	}
	burst := int(math.Max(1, math.Ceil(ratePerSecond)))
	return &Synchronizer{
		queue:     queue,
		deliverer: deliverer,
		notifier:  notifier,
		metrics:   metrics,
		limiter:   rate.NewLimiter(limit, burst),
		log:       log,
		timeout:   timeout,
	}
}

// Sync reenvía los pendientes y quita de la cola los confirmados.
// Nunca devuelve error. Si ya hay una sincronización en curso, no entrega nada por su
// cuenta (ningún registro se entrega dos veces): deja pedida otra pasada a la que corre,
// que vuelve a leer la cola antes de soltar el turno.
func (s *Synchronizer) Sync(ctx context.Context) SyncResult {
	var total SyncResult
	for {
		if !s.running.TryLock() {
			s.rerun.Store(true)
			// Si la otra ya soltó el turno sin ver el pedido, lo tomamos nosotros.
			if !s.running.TryLock() {
				s.log.Debug().Msg("sincronización en curso; se pide otra pasada")
				return total
			}
		}
		s.rerun.Store(false)
		res := s.syncOnce(ctx)
		s.running.Unlock()

		total.Attempted += res.Attempted
		total.Succeeded += res.Succeeded
		if !s.rerun.Load() || ctx.Err() != nil {
			return total
		}
	}
}

func (s *Synchronizer) syncOnce(ctx context.Context) SyncResult {
	var res SyncResult
	pending, err := s.queue.Snapshot(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("no se pudo leer la cola de pendientes")
	}
	if len(pending) == 0 {
		return res
	}

	start := time.Now()
	delivered := make([]string, 0, len(pending))
	for _, record := range pending {
		if err := s.limiter.Wait(ctx); err != nil {
			s.log.Warn().Err(err).Msg("sincronización interrumpida")
			break
		}
		res.Attempted++
		result, err := s.deliver(ctx, record)
		s.metrics.ObserveDelivery(result.String())
		if err != nil || result != entity.DeliveryConfirmed {
			s.log.Warn().Err(err).
				Str("checkout_id", record.ID).
				Str("result", result.String()).
				Msg("reenvío fallido; el retiro sigue en cola")
			continue
		}
		delivered = append(delivered, record.ID)
		res.Succeeded++
	}

	// Los confirmados ya llegaron al servidor: la limpieza no depende del ctx del llamador.
	if err := s.queue.Remove(context.WithoutCancel(ctx), delivered); err != nil {
		s.log.Error().Err(err).Int("delivered", len(delivered)).Msg("no se pudo actualizar la cola tras sincronizar")
	}

	remaining := s.queue.Len(ctx)
	s.metrics.ObserveSync(res.Attempted, res.Succeeded)
	s.metrics.SetPending(remaining)
	s.log.Info().
		Int("attempted", res.Attempted).
		Int("succeeded", res.Succeeded).
		Int("remaining", remaining).
		Dur("elapsed", time.Since(start)).
		Msg("sincronización terminada")

	switch {
	case res.Succeeded > 0 && remaining == 0:
		s.notifier.Notify(ports.NoticeInfo, "All pending checkouts synced.")
	case res.Attempted > res.Succeeded:
		s.notifier.Notify(ports.NoticeWarning, "Some checkouts could not be synced and remain pending.")
	}
	return res
}

func (s *Synchronizer) deliver(ctx context.Context, record entity.CheckoutRecord) (entity.DeliveryResult, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return s.deliverer.Deliver(ctx, record)
}
