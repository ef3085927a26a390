package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/luxy-checkout/internal/application/dto"
	"github.com/jhoicas/luxy-checkout/internal/application/kiosk"
	"github.com/jhoicas/luxy-checkout/internal/application/session"
	"github.com/jhoicas/luxy-checkout/internal/domain"
	"github.com/jhoicas/luxy-checkout/internal/domain/entity"
)

// ReceiptRenderer genera el comprobante PDF de un retiro (infrastructure/pdf).
type ReceiptRenderer interface {
	Generate(record entity.CheckoutRecord, status string) ([]byte, error)
}

// KioskHandler rutas que usa la capa de presentación del kiosko.
type KioskHandler struct {
	coord    *kiosk.Coordinator
	receipts ReceiptRenderer
}

// NewKioskHandler construye el handler.
func NewKioskHandler(coord *kiosk.Coordinator, receipts ReceiptRenderer) *KioskHandler {
	return &KioskHandler{coord: coord, receipts: receipts}
}

// Status godoc
// @Summary      Indicador online/offline y pendientes
// @Tags         kiosk
// @Produce      json
// @Success      200  {object}  connectivity.Status
// @Router       /api/status [get]
func (h *KioskHandler) Status(c *fiber.Ctx) error {
	return c.JSON(h.coord.Status(c.UserContext()))
}

// Notices godoc
// @Summary      Avisos no bloqueantes recientes
// @Tags         kiosk
// @Produce      json
// @Success      200  {array}  dto.NoticeResponse
// @Router       /api/notices [get]
func (h *KioskHandler) Notices(c *fiber.Ctx) error {
	notices := h.coord.State.Notices()
	out := make([]dto.NoticeResponse, 0, len(notices))
	for _, n := range notices {
		out = append(out, dto.NoticeResponse{Level: n.Level, Message: n.Message, At: n.At})
	}
	return c.JSON(out)
}

// Employees godoc
// @Summary      Empleados en uso
// @Tags         kiosk
// @Produce      json
// @Router       /api/employees [get]
func (h *KioskHandler) Employees(c *fiber.Ctx) error {
	ref := h.coord.State.Reference()
	out := dto.ReferenceResponse[dto.EmployeeResponse]{Data: make([]dto.EmployeeResponse, 0, len(ref.Employees))}
	for _, e := range ref.Employees {
		out.Data = append(out.Data, dto.EmployeeResponse{ID: e.ID, Name: e.Name})
	}
	if !ref.FetchedAt.IsZero() {
		out.FetchedAt = &ref.FetchedAt
	}
	return c.JSON(out)
}

// Items godoc
// @Summary      Ítems en uso
// @Tags         kiosk
// @Produce      json
// @Router       /api/items [get]
func (h *KioskHandler) Items(c *fiber.Ctx) error {
	ref := h.coord.State.Reference()
	out := dto.ReferenceResponse[dto.ItemResponse]{Data: make([]dto.ItemResponse, 0, len(ref.Items))}
	for _, it := range ref.Items {
		out.Data = append(out.Data, dto.ItemResponse{ID: it.ID, Name: it.Name, Unit: it.Unit, Label: it.Label()})
	}
	if !ref.FetchedAt.IsZero() {
		out.FetchedAt = &ref.FetchedAt
	}
	return c.JSON(out)
}

// SelectEmployee godoc
// @Summary      Seleccionar empleado
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SelectEmployeeRequest  true  "employee_id"
// @Success      200   {object}  dto.EmployeeResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/session/employee [post]
func (h *KioskHandler) SelectEmployee(c *fiber.Ctx) error {
	var in dto.SelectEmployeeRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	emp, err := h.coord.State.SelectEmployee(in.EmployeeID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.EmployeeResponse{ID: emp.ID, Name: emp.Name})
}

// Cart godoc
// @Summary      Carrito de la sesión
// @Tags         session
// @Produce      json
// @Success      200  {object}  dto.CartResponse
// @Router       /api/cart [get]
func (h *KioskHandler) Cart(c *fiber.Ctx) error {
	return c.JSON(cartResponse(h.coord.State))
}

// AddToCart godoc
// @Summary      Agregar ítem al carrito
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddToCartRequest  true  "item_id, quantity"
// @Success      201   {object}  dto.CartResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/cart [post]
func (h *KioskHandler) AddToCart(c *fiber.Ctx) error {
	var in dto.AddToCartRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if _, err := h.coord.State.AddToCart(in.ItemID, in.Quantity); err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(cartResponse(h.coord.State))
}

// RemoveFromCart godoc
// @Summary      Quitar línea del carrito por posición
// @Tags         session
// @Produce      json
// @Param        index  path  int  true  "posición (desde 0)"
// @Success      200    {object}  dto.CartResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /api/cart/{index} [delete]
func (h *KioskHandler) RemoveFromCart(c *fiber.Ctx) error {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "index debe ser entero"})
	}
	if err := h.coord.State.RemoveFromCart(index); err != nil {
		return writeError(c, err)
	}
	return c.JSON(cartResponse(h.coord.State))
}

// SetSignature godoc
// @Summary      Guardar firma (data URL)
// @Tags         session
// @Accept       json
// @Param        body  body  dto.SignatureRequest  true  "data_url"
// @Success      204
// @Router       /api/signature [put]
func (h *KioskHandler) SetSignature(c *fiber.Ctx) error {
	var in dto.SignatureRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	h.coord.State.SetSignature(in.DataURL)
	return c.SendStatus(fiber.StatusNoContent)
}

// ClearSignature godoc
// @Summary      Borrar firma
// @Tags         session
// @Success      204
// @Router       /api/signature [delete]
func (h *KioskHandler) ClearSignature(c *fiber.Ctx) error {
	h.coord.State.ClearSignature()
	return c.SendStatus(fiber.StatusNoContent)
}

// Checkout godoc
// @Summary      Enviar retiro
// @Description  Entrega inmediata si hay conexión; si no se confirma, queda en la cola offline.
// @Tags         checkout
// @Produce      json
// @Success      200  {object}  dto.CheckoutResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/checkout [post]
func (h *KioskHandler) Checkout(c *fiber.Ctx) error {
	res, err := h.coord.Submit(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.CheckoutResponse{
		ID:        res.Record.ID,
		Outcome:   string(res.Outcome),
		Employee:  res.Record.Employee.Name,
		ItemCount: res.Record.ItemCount(),
		Message:   res.Message,
		Notice:    res.Notice,
	})
}

// LastReceipt godoc
// @Summary      Comprobante PDF del último retiro
// @Tags         checkout
// @Produce      application/pdf
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/checkout/last/receipt [get]
func (h *KioskHandler) LastReceipt(c *fiber.Ctx) error {
	last, ok := h.coord.State.Last()
	if !ok {
		return writeError(c, domain.ErrNotFound)
	}
	return sendReceipt(c, h.receipts, last.Record, string(last.Outcome))
}

// Reset godoc
// @Summary      Iniciar un retiro nuevo
// @Tags         session
// @Success      204
// @Router       /api/session/reset [post]
func (h *KioskHandler) Reset(c *fiber.Ctx) error {
	h.coord.State.Reset()
	return c.SendStatus(fiber.StatusNoContent)
}

// Connectivity godoc
// @Summary      Evento online/offline del navegador
// @Tags         kiosk
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ConnectivityRequest  true  "online"
// @Success      200   {object}  connectivity.Status
// @Router       /api/connectivity [post]
func (h *KioskHandler) Connectivity(c *fiber.Ctx) error {
	var in dto.ConnectivityRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	h.coord.Monitor.SetOnline(in.Online)
	return c.JSON(h.coord.Status(c.UserContext()))
}

func cartResponse(st *session.State) dto.CartResponse {
	lines := st.Cart()
	out := dto.CartResponse{
		Lines:        make([]dto.CartLineResponse, 0, len(lines)),
		HasSignature: st.Signature() != "",
	}
	if emp, ok := st.CurrentEmployee(); ok {
		out.Employee = &dto.EmployeeResponse{ID: emp.ID, Name: emp.Name}
	}
	for i, l := range lines {
		out.Lines = append(out.Lines, dto.CartLineResponse{
			Index: i, ID: l.ID, Name: l.Name, Unit: l.Unit, Quantity: l.Quantity, Text: l.Describe(),
		})
	}
	return out
}

func sendReceipt(c *fiber.Ctx, r ReceiptRenderer, record entity.CheckoutRecord, status string) error {
	pdf, err := r.Generate(record, status)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="checkout-`+record.ID+`.pdf"`)
	return c.Send(pdf)
}
