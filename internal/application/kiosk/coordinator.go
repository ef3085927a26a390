// Package kiosk conecta los componentes del núcleo: al arrancar sirve la caché y
// sincroniza pendientes; cada evento became-online dispara exactamente una sincronización.
package kiosk

import (
	"context"
	"sync"

	"github.com/jhoicas/luxy-checkout/internal/application/checkout"
	"github.com/jhoicas/luxy-checkout/internal/application/connectivity"
	"github.com/jhoicas/luxy-checkout/internal/application/refdata"
	"github.com/jhoicas/luxy-checkout/internal/application/session"
	"github.com/jhoicas/luxy-checkout/pkg/logger"
)

// Syncer sincronizador de la cola (checkout.Synchronizer).
type Syncer interface {
	Sync(ctx context.Context) checkout.SyncResult
}

// Refresher refresco de datos de referencia (refdata.Loader).
type Refresher interface {
	Start(ctx context.Context) refdata.LoadResult
	Refresh(ctx context.Context) error
}

// Submitter pipeline de envío (checkout.Pipeline).
type Submitter interface {
	SubmitCurrent(ctx context.Context, sess checkout.Session) (checkout.SubmitResult, error)
}

// Coordinator dueño del estado de la aplicación y del cableado entre componentes.
type Coordinator struct {
	State   *session.State
	Monitor *connectivity.Monitor
	Queue   *checkout.PendingQueue

	loader    Refresher
	syncer    Syncer
	submitter Submitter
	log       *logger.Logger

	wg sync.WaitGroup
}

// NewCoordinator construye el coordinador.
func NewCoordinator(
	state *session.State,
	monitor *connectivity.Monitor,
	queue *checkout.PendingQueue,
	loader Refresher,
	syncer Syncer,
	submitter Submitter,
	log *logger.Logger,
) *Coordinator {
	return &Coordinator{
		State:     state,
		Monitor:   monitor,
		Queue:     queue,
		loader:    loader,
		syncer:    syncer,
		submitter: submitter,
		log:       log,
	}
}

// Start carga los datos de referencia, sincroniza si quedaron pendientes de una
// ejecución anterior y empieza a escuchar los eventos del monitor.
// Los eventos se procesan hasta que ctx se cancele o se cierre el monitor; Wait espera ese fin.
func (c *Coordinator) Start(ctx context.Context) refdata.LoadResult {
	events := c.Monitor.Subscribe()

	res := c.loader.Start(ctx)
	if c.Monitor.Online() && c.Queue.Len(ctx) > 0 {
		c.log.Info().Int("pending", c.Queue.Len(ctx)).Msg("pendientes de una ejecución anterior; sincronizando")
		c.syncer.Sync(ctx)
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.listen(ctx, events)
	}()
	return res
}

// Wait bloquea hasta que termine el procesamiento de eventos.
func (c *Coordinator) Wait() { c.wg.Wait() }

func (c *Coordinator) listen(ctx context.Context, events <-chan connectivity.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev != connectivity.BecameOnline {
				continue
			}
			res := c.syncer.Sync(ctx)
			c.log.Info().
				Int("attempted", res.Attempted).
				Int("succeeded", res.Succeeded).
				Msg("sincronización por reconexión")
			if err := c.loader.Refresh(ctx); err != nil {
				c.log.Warn().Err(err).Msg("refresco tras reconexión fallido")
			}
		}
	}
}

// Status indicador online/offline con la profundidad de la cola.
func (c *Coordinator) Status(ctx context.Context) connectivity.Status {
	return connectivity.NewStatus(c.Monitor.Online(), c.Queue.Len(ctx))
}

// Submit envía el retiro armado en la sesión.
func (c *Coordinator) Submit(ctx context.Context) (checkout.SubmitResult, error) {
	return c.submitter.SubmitCurrent(ctx, c.State)
}

// SyncNow sincronización manual (supervisor).
func (c *Coordinator) SyncNow(ctx context.Context) checkout.SyncResult {
	return c.syncer.Sync(ctx)
}

// RefreshNow refresco manual de los datos de referencia (supervisor).
func (c *Coordinator) RefreshNow(ctx context.Context) error {
	return c.loader.Refresh(ctx)
}
