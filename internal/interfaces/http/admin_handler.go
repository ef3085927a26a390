package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/luxy-checkout/internal/application/dto"
	"github.com/jhoicas/luxy-checkout/internal/application/kiosk"
)

// AdminHandler rutas de supervisor: inspección de la cola y acciones manuales.
type AdminHandler struct {
	coord    *kiosk.Coordinator
	receipts ReceiptRenderer
}

// NewAdminHandler construye el handler.
func NewAdminHandler(coord *kiosk.Coordinator, receipts ReceiptRenderer) *AdminHandler {
	return &AdminHandler{coord: coord, receipts: receipts}
}

// Pending godoc
// @Summary      Retiros pendientes de sincronizar (FIFO)
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        limit   query  int  false  "límite (máx 100)"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200     {object}  dto.PendingListResponse
// @Router       /api/admin/pending [get]
func (h *AdminHandler) Pending(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros de página inválidos"})
	}
	page.DefaultPage()

	records, err := h.coord.Queue.Snapshot(c.UserContext())
	if err != nil && len(records) == 0 {
		return writeError(c, err)
	}
	out := dto.PendingListResponse{
		Data: []dto.PendingCheckoutResponse{},
		Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(records)},
	}
	for i := page.Offset; i < len(records) && i < page.Offset+page.Limit; i++ {
		r := records[i]
		items := make([]string, 0, len(r.Items))
		for _, l := range r.Items {
			items = append(items, l.Describe())
		}
		out.Data = append(out.Data, dto.PendingCheckoutResponse{
			ID: r.ID, Timestamp: r.Timestamp, Employee: r.Employee.Name, Items: items,
		})
	}
	return c.JSON(out)
}

// PendingReceipt godoc
// @Summary      Comprobante PDF de un retiro pendiente
// @Tags         admin
// @Security     BearerAuth
// @Produce      application/pdf
// @Param        id  path  string  true  "id del retiro"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/pending/{id}/receipt [get]
func (h *AdminHandler) PendingReceipt(c *fiber.Ctx) error {
	record, err := h.coord.Queue.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return sendReceipt(c, h.receipts, record, "pending")
}

// Sync godoc
// @Summary      Sincronizar la cola ahora
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  checkout.SyncResult
// @Router       /api/admin/sync [post]
func (h *AdminHandler) Sync(c *fiber.Ctx) error {
	return c.JSON(h.coord.SyncNow(c.UserContext()))
}

// Refresh godoc
// @Summary      Refrescar empleados e ítems desde el backend
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  dto.MessageResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/admin/refresh [post]
func (h *AdminHandler) Refresh(c *fiber.Ctx) error {
	if err := h.coord.RefreshNow(c.UserContext()); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "datos de referencia actualizados"})
}
