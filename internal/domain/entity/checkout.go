package entity

import (
	"time"

	"github.com/google/uuid"
)

// TimestampLayout ISO-8601 en UTC con milisegundos (igual que Date.toISOString).
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// CheckoutRecord retiro firmado por un empleado. Inmutable una vez construido:
// se entrega o se encola exactamente una vez.
type CheckoutRecord struct {
	ID        string     `json:"id"`
	Timestamp string     `json:"timestamp"`
	Employee  Employee   `json:"employee"`
	Items     []CartLine `json:"items"`
	Signature string     `json:"signature"` // data URL de la imagen comprimida
}

// NewCheckoutRecord construye el registro con copia defensiva de las líneas.
func NewCheckoutRecord(now time.Time, employee Employee, lines []CartLine, signature string) CheckoutRecord {
	items := make([]CartLine, len(lines))
	copy(items, lines)
	return CheckoutRecord{
		ID:        uuid.New().String(),
		Timestamp: now.UTC().Format(TimestampLayout),
		Employee:  employee,
		Items:     items,
		Signature: signature,
	}
}

// ItemCount número de líneas del registro.
func (r CheckoutRecord) ItemCount() int { return len(r.Items) }
