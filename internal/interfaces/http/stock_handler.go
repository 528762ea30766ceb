package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	appstock "github.com/jhoicas/stock-ledger-api/internal/application/stock"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// StockHandler maneja las peticiones HTTP del ledger de stock (protegido).
type StockHandler struct {
	create     *appstock.CreateUseCase
	mutation   *appstock.MutationUseCase
	deactivate *appstock.DeactivateUseCase
	query      *appstock.QueryUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(
	create *appstock.CreateUseCase,
	mutation *appstock.MutationUseCase,
	deactivate *appstock.DeactivateUseCase,
	query *appstock.QueryUseCase,
) *StockHandler {
	return &StockHandler{create: create, mutation: mutation, deactivate: deactivate, query: query}
}

// CreateProduct godoc
// @Summary      Crear registro de stock de un producto (cantidad 0, activo)
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "product_id (opcional), name"
// @Success      201   {object}  map[string]string
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *StockHandler) CreateProduct(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	rec, err := h.create.Create(c.Context(), in.ProductID, in.Name)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el producto ya existe"})
		}
		return internalError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"product_id": rec.ProductID,
		"quantity":   rec.Quantity,
		"is_active":  rec.IsActive,
	})
}

// AddStock godoc
// @Summary      Registrar entrada de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productID  path  string                  true  "ID del producto"
// @Param        body       body  dto.MutateStockRequest  true  "quantity (> 0), reason (opcional)"
// @Success      200   {object}  dto.StockQuantityResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/{productID}/add [post]
func (h *StockHandler) AddStock(c *fiber.Ctx) error {
	return h.mutate(c, h.mutation.AddStock)
}

// RemoveStock godoc
// @Summary      Registrar salida de stock
// @Description  Rechaza con INSUFFICIENT_STOCK si la cantidad solicitada excede la disponible; no muta nada en ese caso.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productID  path  string                  true  "ID del producto"
// @Param        body       body  dto.MutateStockRequest  true  "quantity (> 0), reason (opcional)"
// @Success      200   {object}  dto.StockQuantityResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/{productID}/remove [post]
func (h *StockHandler) RemoveStock(c *fiber.Ctx) error {
	return h.mutate(c, h.mutation.RemoveStock)
}

func (h *StockHandler) mutate(c *fiber.Ctx, fn func(ctx context.Context, productID, actorID string, quantity int64, reason string) (int64, error)) error {
	productID := c.Params("productID")
	actorID := GetActorID(c)
	if actorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.MutateStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	newQuantity, err := fn(c.Context(), productID, actorID, in.Quantity, in.Reason)
	if err != nil {
		return mapStockError(c, err)
	}
	return c.JSON(dto.StockQuantityResponse{ProductID: productID, NewQuantity: newQuantity})
}

// DeactivateProduct godoc
// @Summary      Desactivar un producto (soft delete)
// @Description  Solo procede si la cantidad es cero en el instante del commit; rechaza con HAS_STOCK en caso contrario.
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        productID  path  string  true  "ID del producto"
// @Success      204
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{productID} [delete]
func (h *StockHandler) DeactivateProduct(c *fiber.Ctx) error {
	if err := h.deactivate.Deactivate(c.Context(), c.Params("productID")); err != nil {
		return mapStockError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetHistory godoc
// @Summary      Historial del ledger de mutaciones
// @Description  Entradas más recientes primero. Filtros: product_id, from, to (RFC3339), limit (default 50).
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Filtrar por producto"
// @Param        from        query  string  false  "Desde (RFC3339)"
// @Param        to          query  string  false  "Hasta (RFC3339)"
// @Param        limit       query  int     false  "Tope de resultados"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock/movements [get]
func (h *StockHandler) GetHistory(c *fiber.Ctx) error {
	var from, to *time.Time
	if s := c.Query("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from debe ser RFC3339"})
		}
		from = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to debe ser RFC3339"})
		}
		to = &t
	}
	entries, err := h.query.GetHistory(c.Context(), c.Query("product_id"), from, to, c.QueryInt("limit"))
	if err != nil {
		return internalError(c, err)
	}
	out := make([]dto.MutationEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryDTO(e))
	}
	return c.JSON(fiber.Map{"total": len(out), "entries": out})
}

// GetStatus godoc
// @Summary      Clasificación de stock de un producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        productID  path   string  true   "ID del producto"
// @Param        threshold  query  int     false  "Umbral de stock bajo (default configurado)"
// @Success      200   {object}  dto.StockStatusResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/{productID}/status [get]
func (h *StockHandler) GetStatus(c *fiber.Ctx) error {
	status, err := h.query.Classify(c.Context(), c.Params("productID"), int64(c.QueryInt("threshold")))
	if err != nil {
		return mapStockError(c, err)
	}
	return c.JSON(dto.StockStatusResponse{
		ProductID: status.ProductID,
		Quantity:  status.Quantity,
		Threshold: status.Threshold,
		Status:    status.Status,
	})
}

// GetLowStock godoc
// @Summary      Reporte de productos bajos o agotados
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        threshold  query  int  false  "Umbral de stock bajo"
// @Success      200   {object}  map[string]interface{}
// @Router       /api/stock/low [get]
func (h *StockHandler) GetLowStock(c *fiber.Ctx) error {
	list, err := h.query.LowStockReport(c.Context(), int64(c.QueryInt("threshold")))
	if err != nil {
		return internalError(c, err)
	}
	out := make([]dto.StockStatusResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.StockStatusResponse{
			ProductID: s.ProductID,
			Quantity:  s.Quantity,
			Threshold: s.Threshold,
			Status:    s.Status,
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "products": out})
}

func toEntryDTO(e *entity.MutationEntry) dto.MutationEntryDTO {
	return dto.MutationEntryDTO{
		ID:            e.ID,
		ProductID:     e.ProductID,
		Delta:         e.Delta,
		QuantityAfter: e.QuantityAfter,
		ChangeType:    e.ChangeType,
		Reason:        e.Reason,
		ActorID:       e.ActorID,
		OccurredAt:    e.OccurredAt,
	}
}

// mapStockError traduce el set cerrado de errores de dominio a HTTP.
func mapStockError(c *fiber.Ctx, err error) error {
	var insufficient *domain.InsufficientStockError
	if errors.As(err, &insufficient) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:      "INSUFFICIENT_STOCK",
			Message:   insufficient.Error(),
			Requested: &insufficient.Requested,
			Available: &insufficient.Available,
		})
	}
	var hasStock *domain.HasStockError
	if errors.As(err, &hasStock) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:            "HAS_STOCK",
			Message:         hasStock.Error(),
			CurrentQuantity: &hasStock.Quantity,
		})
	}
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "quantity debe ser un entero positivo"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
	case errors.Is(err, domain.ErrProductInactive):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "PRODUCT_INACTIVE", Message: "el producto está desactivado"})
	}
	return internalError(c, err)
}

func internalError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
