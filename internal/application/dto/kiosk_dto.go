package dto

import "time"

// EmployeeResponse empleado seleccionable.
type EmployeeResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ItemResponse ítem con su etiqueta "Gloves (pair)".
type ItemResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Unit  string `json:"unit"`
	Label string `json:"label"`
}

// ReferenceResponse listas en uso y hora de descarga.
type ReferenceResponse[T any] struct {
	Data      []T        `json:"data"`
	FetchedAt *time.Time `json:"fetched_at,omitempty"`
}

// SelectEmployeeRequest cuerpo de POST /api/session/employee.
type SelectEmployeeRequest struct {
	EmployeeID string `json:"employee_id"`
}

// AddToCartRequest cuerpo de POST /api/cart.
type AddToCartRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// CartLineResponse línea del carrito con su posición.
type CartLineResponse struct {
	Index    int    `json:"index"`
	ID       string `json:"id"`
	Name     string `json:"name"`
	Unit     string `json:"unit"`
	Quantity int    `json:"quantity"`
	Text     string `json:"text"` // "3 pairs Gloves"
}

// CartResponse carrito de la sesión.
type CartResponse struct {
	Employee     *EmployeeResponse  `json:"employee,omitempty"`
	Lines        []CartLineResponse `json:"lines"`
	HasSignature bool               `json:"has_signature"`
}

// SignatureRequest cuerpo de PUT /api/signature.
type SignatureRequest struct {
	DataURL string `json:"data_url"`
}

// CheckoutResponse resultado de POST /api/checkout.
type CheckoutResponse struct {
	ID        string `json:"id"`
	Outcome   string `json:"outcome"`
	Employee  string `json:"employee"`
	ItemCount int    `json:"item_count"`
	Message   string `json:"message"`
	Notice    string `json:"notice,omitempty"`
}

// ConnectivityRequest evento online/offline del navegador.
type ConnectivityRequest struct {
	Online bool `json:"online"`
}

// NoticeResponse aviso no bloqueante.
type NoticeResponse struct {
	Level   string    `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// PendingCheckoutResponse retiro en cola (sin la firma).
type PendingCheckoutResponse struct {
	ID        string   `json:"id"`
	Timestamp string   `json:"timestamp"`
	Employee  string   `json:"employee"`
	Items     []string `json:"items"`
}

// PendingListResponse página de la cola de pendientes.
type PendingListResponse struct {
	Data []PendingCheckoutResponse `json:"data"`
	Page PageResponse              `json:"page"`
}
