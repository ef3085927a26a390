// Package remote habla con el servicio remoto de la hoja de cálculo (web app publicada):
// descarga empleados e ítems y entrega retiros.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/jhoicas/luxy-checkout/internal/application/ports"
	"github.com/jhoicas/luxy-checkout/internal/domain"
	"github.com/jhoicas/luxy-checkout/internal/domain/entity"
	"github.com/jhoicas/luxy-checkout/internal/domain/validation"
)

// ── Constantes ────────────────────────────────────────────────────────────────

const (
	actionGetEmployees   = "getEmployees"
	actionGetItems       = "getItems"
	actionSubmitCheckout = "submitCheckout"

	maxResponseBytes = 4 << 20
)

// Mode cómo se interpreta la respuesta de una entrega.
type Mode string

const (
	// ModeJSON lee {"success": bool} de la respuesta.
	ModeJSON Mode = "json"
	// ModeFireAndForget no lee la respuesta; el resultado es siempre desconocido y la firma no viaja.
	ModeFireAndForget Mode = "fire-and-forget"
)

var (
	_ ports.ReferenceSource   = (*Client)(nil)
	_ ports.CheckoutDeliverer = (*Client)(nil)
	_ ports.Prober            = (*Client)(nil)
)

// ── Cliente ───────────────────────────────────────────────────────────────────

// Client cliente HTTP del backend. Los timeouts se controlan con el ctx de cada llamada.
type Client struct {
	baseURL          string
	mode             Mode
	includeSignature bool
	httpClient       *http.Client
}

// Options configuración del cliente.
type Options struct {
	BaseURL          string
	Mode             Mode
	IncludeSignature bool
	HTTPClient       *http.Client // opcional
}

// NewClient construye el cliente.
func NewClient(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 60 * time.Second}
	}
	mode := opts.Mode
	if mode == "" {
		mode = ModeJSON
	}
	return &Client{
		baseURL:          opts.BaseURL,
		mode:             mode,
		includeSignature: opts.IncludeSignature && mode == ModeJSON,
		httpClient:       hc,
	}
}

// ── Datos de referencia ───────────────────────────────────────────────────────

// FetchEmployees descarga y valida la lista de empleados.
func (c *Client) FetchEmployees(ctx context.Context) ([]entity.Employee, error) {
	raw, err := c.fetchList(ctx, actionGetEmployees, "employees")
	if err != nil {
		return nil, err
	}
	return validation.ValidateEmployees(raw)
}

// FetchItems descarga y valida la lista de ítems.
func (c *Client) FetchItems(ctx context.Context) ([]entity.Item, error) {
	raw, err := c.fetchList(ctx, actionGetItems, "items")
	if err != nil {
		return nil, err
	}
	return validation.ValidateItems(raw)
}

// fetchList GET ?action=...; una clave ausente equivale a una lista vacía.
func (c *Client) fetchList(ctx context.Context, action, key string) (any, error) {
	u, err := c.actionURL(action)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &domain.TransportError{Op: action, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	body, status, err := c.do(req)
	if err != nil {
		return nil, &domain.TransportError{Op: action, Err: err}
	}
	if status < 200 || status > 299 {
		return nil, &domain.TransportError{Op: action, StatusCode: status}
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &domain.SchemaError{Kind: key, Index: -1, Reason: "respuesta no es un objeto JSON"}
	}
	list, ok := payload[key]
	if !ok || list == nil {
		return []any{}, nil
	}
	return list, nil
}

// ── Entrega ───────────────────────────────────────────────────────────────────

type submitRequest struct {
	Action    string            `json:"action"`
	Timestamp string            `json:"timestamp"`
	Employee  entity.Employee   `json:"employee"`
	Items     []entity.CartLine `json:"items"`
	Signature string            `json:"signature,omitempty"`
}

type submitResponse struct {
	Success *bool  `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Deliver POST del retiro. Solo {"success": true} con estado 2xx confirma la entrega.
func (c *Client) Deliver(ctx context.Context, record entity.CheckoutRecord) (entity.DeliveryResult, error) {
	payload := submitRequest{
		Action:    actionSubmitCheckout,
		Timestamp: record.Timestamp,
		Employee:  record.Employee,
		Items:     record.Items,
	}
	if c.includeSignature {
		payload.Signature = record.Signature
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return entity.DeliveryUnknown, fmt.Errorf("remote: serializar retiro: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(raw))
	if err != nil {
		return entity.DeliveryUnknown, &domain.TransportError{Op: actionSubmitCheckout, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	body, status, err := c.do(req)
	if err != nil {
		return entity.DeliveryUnknown, &domain.TransportError{Op: actionSubmitCheckout, Err: err}
	}
	if c.mode == ModeFireAndForget {
		return entity.DeliveryUnknown, nil
	}
	if status < 200 || status > 299 {
		return entity.DeliveryUnknown, &domain.TransportError{Op: actionSubmitCheckout, StatusCode: status}
	}

	var resp submitResponse
	if err := json.Unmarshal(body, &resp); err != nil || resp.Success == nil {
		return entity.DeliveryUnknown, nil
	}
	if !*resp.Success {
		return entity.DeliveryRejected, nil
	}
	return entity.DeliveryConfirmed, nil
}

// ── Sondeo ────────────────────────────────────────────────────────────────────

// Probe HEAD al backend; cualquier respuesta HTTP cuenta como alcanzable.
func (c *Client) Probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL, nil)
	if err != nil {
		return &domain.TransportError{Op: "probe", Err: err}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.TransportError{Op: "probe", Err: err}
	}
	resp.Body.Close()
	if resp.StatusCode >= 500 {
		return &domain.TransportError{Op: "probe", StatusCode: resp.StatusCode}
	}
	return nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (c *Client) actionURL(action string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", &domain.TransportError{Op: action, Err: err}
	}
	q := u.Query()
	q.Set("action", action)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *Client) do(req *http.Request) ([]byte, int, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx := req.Context(); ctx.Err() != nil {
			return nil, 0, fmt.Errorf("timeout o cancelación: %w", ctx.Err())
		}
		return nil, 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("leer respuesta: %w", err)
	}
	return body, resp.StatusCode, nil
}
