package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stockflow-api/internal/application/auth"
	"github.com/jhoicas/stockflow-api/internal/application/report"
	"github.com/jhoicas/stockflow-api/internal/application/sales"
	"github.com/jhoicas/stockflow-api/internal/application/stock"
	"github.com/jhoicas/stockflow-api/internal/application/usecase"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	StockItemUC     *usecase.StockItemUseCase
	LocationUC      *usecase.LocationUseCase
	MovementUC      *stock.RecordMovementUseCase
	TransferUC      *stock.TransferUseCase
	SaleUC          *sales.SaleUseCase
	ConsolidationUC *report.ConsolidationUseCase
	ReportingUC     *report.ReportingUseCase
	AuthUC          *auth.AuthUseCase
	JWTSecret       string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", AuthMiddleware(deps.JWTSecret), authHandler.Me)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Stock: ítems y movimientos (protegido)
	stockHandler := NewStockHandler(deps.StockItemUC, deps.MovementUC, deps.ReportingUC)
	stockGroup := protected.Group("/stock")
	stockGroup.Post("/items", stockHandler.CreateItem)
	stockGroup.Get("/items", stockHandler.ListItems)
	stockGroup.Get("/items/low-stock", stockHandler.ListLowStock)
	stockGroup.Get("/items/:id", stockHandler.GetItem)
	stockGroup.Put("/items/:id", stockHandler.UpdateItem)
	stockGroup.Delete("/items/:id", RequireRole(entity.RoleAdmin), stockHandler.DeleteItem)
	stockGroup.Get("/items/:id/movements", stockHandler.ItemMovements)
	stockGroup.Post("/movements", stockHandler.RecordMovement)

	// Transfers (protegido)
	transfers := protected.Group("/transfers")
	transferHandler := NewTransferHandler(deps.TransferUC)
	transfers.Post("/", transferHandler.Create)

	// Locations (protegido)
	locations := protected.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC)
	locations.Post("/", locationHandler.Create)
	locations.Get("/", locationHandler.List)
	locations.Get("/:id", locationHandler.GetByID)
	locations.Put("/:id", locationHandler.Update)
	// Eliminar ubicaciones es solo para administradores
	locations.Delete("/:id", RequireRole(entity.RoleAdmin), locationHandler.Delete)
	locations.Get("/:id/inventory", locationHandler.Inventory)

	// Sales (protegido)
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/by-reference/:reference", saleHandler.GetByReference)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Post("/:id/complete", saleHandler.Complete)
	salesGroup.Post("/:id/cancel", saleHandler.Cancel)

	// Reports (protegido)
	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ConsolidationUC, deps.ReportingUC)
	reports.Get("/consolidation", reportHandler.Consolidation)
	reports.Get("/consolidation/pdf", reportHandler.ConsolidationPDF)
	reports.Get("/movements", reportHandler.Movements)
	reports.Get("/sales/daily", reportHandler.DailySales)
}
