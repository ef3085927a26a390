package refdata

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/luxy-checkout/internal/application/ports"
	"github.com/jhoicas/luxy-checkout/internal/domain/entity"
	"github.com/jhoicas/luxy-checkout/pkg/logger"
)

// Sink recibe los datos de referencia que la UI debe mostrar (session.State).
type Sink interface {
	SetReference(snap entity.ReferenceSnapshot)
}

// LoadResult resumen del arranque para logs y para la API de estado.
type LoadResult struct {
	FromCache bool
	Refreshed bool
	Err       error
}

// Loader aplica la política: servir la caché de inmediato y refrescar si hay conexión.
type Loader struct {
	cache        *Cache
	source       ports.ReferenceSource
	conn         ports.ConnectivityReader
	sink         Sink
	notifier     ports.Notifier
	log          *logger.Logger
	fetchTimeout time.Duration
}

// NewLoader construye el cargador de datos de referencia.
func NewLoader(
	cache *Cache,
	source ports.ReferenceSource,
	conn ports.ConnectivityReader,
	sink Sink,
	notifier ports.Notifier,
	log *logger.Logger,
	fetchTimeout time.Duration,
) *Loader {
	return &Loader{
		cache:        cache,
		source:       source,
		conn:         conn,
		sink:         sink,
		notifier:     notifier,
		log:          log,
		fetchTimeout: fetchTimeout,
	}
}

// Start sirve la instantánea en caché (si la hay) y luego intenta un refresco en vivo.
// Un refresco fallido nunca bloquea: se sigue mostrando lo que había y se avisa.
func (l *Loader) Start(ctx context.Context) LoadResult {
	var res LoadResult
	if snap, ok := l.cache.Load(ctx); ok {
		l.sink.SetReference(snap)
		res.FromCache = true
		l.log.Info().
			Int("employees", len(snap.Employees)).
			Int("items", len(snap.Items)).
			Time("fetched_at", snap.FetchedAt).
			Msg("datos de referencia servidos desde caché")
	}
	if !l.conn.Online() {
		if !res.FromCache {
			l.notifier.Notify(ports.NoticeWarning, "Offline and no cached data available.")
		}
		return res
	}
	if err := l.Refresh(ctx); err != nil {
		res.Err = err
		l.notifier.Notify(ports.NoticeWarning, "Error loading data. Using cached version if available.")
		return res
	}
	res.Refreshed = true
	return res
}

// Refresh descarga empleados e ítems; solo si ambos llegan válidos se sobrescribe la caché.
func (l *Loader) Refresh(ctx context.Context) error {
	if l.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.fetchTimeout)
		defer cancel()
	}
	employees, err := l.source.FetchEmployees(ctx)
	if err != nil {
		l.log.Warn().Err(err).Msg("refresco de empleados fallido")
		return fmt.Errorf("empleados: %w", err)
	}
	items, err := l.source.FetchItems(ctx)
	if err != nil {
		l.log.Warn().Err(err).Msg("refresco de ítems fallido")
		return fmt.Errorf("ítems: %w", err)
	}

	snap, err := l.cache.Save(ctx, employees, items)
	if err != nil {
		// Los datos son válidos: se muestran igual, solo se pierde la copia offline.
		l.log.Error().Err(err).Msg("no se pudo guardar la caché de referencia")
		l.notifier.Notify(ports.NoticeWarning, "Reference data could not be saved for offline use.")
	}
	l.sink.SetReference(snap)
	l.log.Info().
		Int("employees", len(employees)).
		Int("items", len(items)).
		Msg("datos de referencia actualizados")
	return nil
}
