package entity

// DeliveryResult resultado de un intento de entrega al servicio remoto.
// Unknown se trata igual que Rejected: el registro se encola.
type DeliveryResult int

const (
	DeliveryUnknown DeliveryResult = iota
	DeliveryConfirmed
	DeliveryRejected
)

func (r DeliveryResult) String() string {
	switch r {
	case DeliveryConfirmed:
		return "confirmed"
	case DeliveryRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Outcome resultado de Submit visible para el usuario.
type Outcome string

const (
	OutcomeDelivered Outcome = "delivered"
	OutcomeQueued    Outcome = "queued"
)
