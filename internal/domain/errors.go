package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound         = errors.New("recurso no encontrado")
	ErrInvalidInput     = errors.New("entrada inválida")
	ErrUnauthorized     = errors.New("no autorizado")
	ErrForbidden        = errors.New("acceso de supervisor deshabilitado")
	ErrMissingSignature = errors.New("se requiere la firma")
	ErrInvalidSignature = errors.New("firma ilegible")
	ErrNoEmployee       = errors.New("no hay empleado seleccionado")
	ErrEmptyCart        = errors.New("el carrito está vacío")
	ErrInvalidQuantity  = errors.New("la cantidad debe ser mayor o igual a 1")
	ErrUnknownItem      = errors.New("ítem desconocido")
	ErrUnknownEmployee  = errors.New("empleado desconocido")

	// Sentinels de la taxonomía de fallos; los tipos de abajo hacen errors.Is contra ellos.
	ErrSchema      = errors.New("datos de referencia malformados")
	ErrTransport   = errors.New("fallo de transporte")
	ErrPersistence = errors.New("fallo de persistencia local")
)

// SchemaError datos remotos de referencia que no cumplen el esquema.
// Index es la posición del elemento ofensivo (-1 si el problema es la lista completa).
type SchemaError struct {
	Kind   string // "employees" | "items"
	Index  int
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("%s[%d]: %s", e.Kind, e.Index, e.Reason)
}

func (e *SchemaError) Is(target error) bool { return target == ErrSchema }

// TransportError red inalcanzable, timeout o respuesta no exitosa del servicio remoto.
type TransportError struct {
	Op         string
	StatusCode int // 0 si no hubo respuesta HTTP
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

func (e *TransportError) Unwrap() error       { return e.Err }
func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// PersistenceError lectura/escritura fallida del almacenamiento local.
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error       { return e.Err }
func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }
