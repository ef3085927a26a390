package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/luxy-checkout/internal/application/auth"
	"github.com/jhoicas/luxy-checkout/internal/application/kiosk"
	"github.com/jhoicas/luxy-checkout/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Coordinator *kiosk.Coordinator
	Receipts    ReceiptRenderer
	AuthUC      *auth.AuthUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Kiosko (público: la API escucha solo en la interfaz local)
	k := NewKioskHandler(deps.Coordinator, deps.Receipts)
	api.Get("/status", k.Status)
	api.Get("/notices", k.Notices)
	api.Get("/employees", k.Employees)
	api.Get("/items", k.Items)
	api.Post("/connectivity", k.Connectivity)

	sess := api.Group("/session")
	sess.Post("/employee", k.SelectEmployee)
	sess.Post("/reset", k.Reset)

	api.Get("/cart", k.Cart)
	api.Post("/cart", k.AddToCart)
	api.Delete("/cart/:index", k.RemoveFromCart)
	api.Put("/signature", k.SetSignature)
	api.Delete("/signature", k.ClearSignature)

	api.Post("/checkout", k.Checkout)
	api.Get("/checkout/last/receipt", k.LastReceipt)

	// Supervisor (Bearer Token con rol supervisor)
	admin := api.Group("/admin",
		RequireEnabled(deps.AuthUC),
		AuthMiddleware(deps.JWTSecret),
		RequireRole(jwt.RoleSupervisor),
	)
	a := NewAdminHandler(deps.Coordinator, deps.Receipts)
	admin.Get("/pending", a.Pending)
	admin.Get("/pending/:id/receipt", a.PendingReceipt)
	admin.Post("/sync", a.Sync)
	admin.Post("/refresh", a.Refresh)
}
