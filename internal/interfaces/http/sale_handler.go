package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/application/sales"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

// SaleHandler maneja ventas y su ciclo de vida (protegido).
type SaleHandler struct {
	uc *sales.SaleUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.SaleUseCase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// Create godoc
// @Summary      Crear venta (descuenta stock de todas las líneas o de ninguna)
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Venta"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	sale, err := h.uc.CreateSale(c.UserContext(), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toSaleResponse(sale))
}

// GetByReference godoc
// @Summary      Obtener venta por referencia
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        reference  path  string  true  "Referencia (SALE-XXXXXXXX)"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/by-reference/{reference} [get]
func (h *SaleHandler) GetByReference(c *fiber.Ctx) error {
	sale, err := h.uc.GetSaleByReference(c.UserContext(), c.Params("reference"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toSaleResponse(sale))
}

// GetByID godoc
// @Summary      Obtener venta por ID
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	sale, err := h.uc.GetSale(c.UserContext(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toSaleResponse(sale))
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.SaleListResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	limit, offset := dto.ClampPage(c.QueryInt("limit", 0), c.QueryInt("offset", 0))
	list, err := h.uc.ListSales(c.UserContext(), limit, offset)
	if err != nil {
		return domainError(c, err)
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, toSaleResponse(s))
	}
	return c.JSON(dto.SaleListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	})
}

// Complete godoc
// @Summary      Completar venta (PENDING -> COMPLETED)
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/complete [post]
func (h *SaleHandler) Complete(c *fiber.Ctx) error {
	sale, err := h.uc.CompleteSale(c.UserContext(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toSaleResponse(sale))
}

// Cancel godoc
// @Summary      Cancelar venta (PENDING -> CANCELLED, repone el stock)
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/cancel [post]
func (h *SaleHandler) Cancel(c *fiber.Ctx) error {
	sale, err := h.uc.CancelSale(c.UserContext(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toSaleResponse(sale))
}

func toSaleResponse(s *entity.Sale) dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(s.Items))
	for _, li := range s.Items {
		items = append(items, dto.SaleItemResponse{
			StockItemID: li.StockItemID,
			Quantity:    li.Quantity,
			Price:       li.Price,
			Total:       li.Total,
		})
	}
	return dto.SaleResponse{
		ID:            s.ID,
		Reference:     s.Reference,
		CustomerName:  s.CustomerName,
		CustomerPhone: s.CustomerPhone,
		LocationID:    s.LocationID,
		Status:        s.Status,
		Total:         s.Total,
		Items:         items,
		CreatedAt:     s.CreatedAt,
	}
}
