package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/application/report"
	"github.com/jhoicas/stockflow-api/internal/application/stock"
	"github.com/jhoicas/stockflow-api/internal/application/usecase"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

// StockHandler maneja ítems de stock y movimientos (protegido).
type StockHandler struct {
	itemUC     *usecase.StockItemUseCase
	movementUC *stock.RecordMovementUseCase
	reportUC   *report.ReportingUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(
	itemUC *usecase.StockItemUseCase,
	movementUC *stock.RecordMovementUseCase,
	reportUC *report.ReportingUseCase,
) *StockHandler {
	return &StockHandler{itemUC: itemUC, movementUC: movementUC, reportUC: reportUC}
}

// CreateItem godoc
// @Summary      Crear ítem de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockItemRequest  true  "Datos del ítem"
// @Success      201   {object}  dto.StockItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/items [post]
func (h *StockHandler) CreateItem(c *fiber.Ctx) error {
	var in dto.CreateStockItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.SKU == "" || in.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "sku y name son requeridos"})
	}
	out, err := h.itemUC.Create(in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetItem godoc
// @Summary      Obtener ítem por ID
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {object}  dto.StockItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/items/{id} [get]
func (h *StockHandler) GetItem(c *fiber.Ctx) error {
	id := c.Params("id")
	out, err := h.itemUC.GetByID(id)
	if err != nil {
		return domainError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ítem no encontrado"})
	}
	return c.JSON(out)
}

// UpdateItem godoc
// @Summary      Actualizar ítem (nombre, precio, estado; cantidad no editable)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del ítem"
// @Param        body  body  dto.UpdateStockItemRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.StockItemResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/items/{id} [put]
func (h *StockHandler) UpdateItem(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.UpdateStockItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.itemUC.Update(id, in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// DeleteItem godoc
// @Summary      Eliminar ítem sin existencias
// @Tags         stock
// @Security     Bearer
// @Param        id   path  string  true  "ID del ítem"
// @Success      204  "Sin contenido"
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock/items/{id} [delete]
func (h *StockHandler) DeleteItem(c *fiber.Ctx) error {
	if err := h.itemUC.Delete(c.Params("id")); err != nil {
		return domainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListItems godoc
// @Summary      Listar ítems
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.StockItemListResponse
// @Router       /api/stock/items [get]
func (h *StockHandler) ListItems(c *fiber.Ctx) error {
	limit, offset := dto.ClampPage(c.QueryInt("limit", 0), c.QueryInt("offset", 0))
	out, err := h.itemUC.List(limit, offset)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// ListLowStock godoc
// @Summary      Listar ítems con stock bajo
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.StockItemResponse
// @Router       /api/stock/items/low-stock [get]
func (h *StockHandler) ListLowStock(c *fiber.Ctx) error {
	out, err := h.itemUC.ListLowStock()
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// RecordMovement godoc
// @Summary      Registrar movimiento de stock (IN, OUT o ADJUST)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordMovementRequest  true  "Movimiento"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/movements [post]
func (h *StockHandler) RecordMovement(c *fiber.Ctx) error {
	var in dto.RecordMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mov, err := h.movementUC.RecordMovementFromRequest(c.UserContext(), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(mov))
}

// ItemMovements godoc
// @Summary      Historial de movimientos de un ítem
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del ítem"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200     {array}  dto.MovementResponse
// @Router       /api/stock/items/{id}/movements [get]
func (h *StockHandler) ItemMovements(c *fiber.Ctx) error {
	id := c.Params("id")
	limit, offset := dto.ClampPage(c.QueryInt("limit", 0), c.QueryInt("offset", 0))
	movs, err := h.reportUC.ItemMovements(c.UserContext(), id, limit, offset)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, toMovementResponse(m))
	}
	return c.JSON(out)
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:          m.ID,
		StockItemID: m.StockItemID,
		LocationID:  m.LocationID,
		Quantity:    m.Quantity,
		Type:        m.Type,
		Reference:   m.Reference,
		Notes:       m.Notes,
		CreatedAt:   m.CreatedAt,
	}
}
