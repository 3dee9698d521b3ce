package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/application/stock"
)

// TransferHandler maneja traslados entre ubicaciones (protegido).
type TransferHandler struct {
	uc *stock.TransferUseCase
}

// NewTransferHandler construye el handler.
func NewTransferHandler(uc *stock.TransferUseCase) *TransferHandler {
	return &TransferHandler{uc: uc}
}

// Create godoc
// @Summary      Trasladar stock entre ubicaciones
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "Traslado"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	tr, err := h.uc.Transfer(c.UserContext(), stock.TransferInput{
		StockItemID:      in.StockItemID,
		SourceLocationID: in.SourceLocationID,
		TargetLocationID: in.TargetLocationID,
		Quantity:         in.Quantity,
		Reference:        in.Reference,
		Notes:            in.Notes,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.TransferResponse{
		OutMovement: toMovementResponse(tr.OutMovement),
		InMovement:  toMovementResponse(tr.InMovement),
	})
}
