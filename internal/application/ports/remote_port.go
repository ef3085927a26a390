package ports

import (
	"context"

	"github.com/jhoicas/luxy-checkout/internal/domain/entity"
)

// ReferenceSource puerto de salida para descargar los datos de referencia.
// Las implementaciones ya devuelven datos pasados por la capa de validación;
// los errores son *domain.TransportError o *domain.SchemaError.
type ReferenceSource interface {
	FetchEmployees(ctx context.Context) ([]entity.Employee, error)
	FetchItems(ctx context.Context) ([]entity.Item, error)
}

// CheckoutDeliverer puerto de salida para entregar un retiro al servicio remoto.
// Un transporte que no puede leer la respuesta devuelve DeliveryUnknown, nunca Confirmed.
type CheckoutDeliverer interface {
	Deliver(ctx context.Context, record entity.CheckoutRecord) (entity.DeliveryResult, error)
}

// Prober comprueba si el servicio remoto es alcanzable.
type Prober interface {
	Probe(ctx context.Context) error
}
