package dto

import "time"

// CreateProductRequest alta del registro de stock (cantidad 0, activo).
// Los demás atributos del producto viven fuera de este core.
type CreateProductRequest struct {
	ProductID string `json:"product_id"` // opcional; vacío = se genera un UUID
	Name      string `json:"name"`
}

// MutateStockRequest cuerpo de entrada/salida de stock.
type MutateStockRequest struct {
	Quantity int64  `json:"quantity"` // debe ser > 0
	Reason   string `json:"reason"`
}

// StockQuantityResponse respuesta de una mutación exitosa.
type StockQuantityResponse struct {
	ProductID   string `json:"product_id"`
	NewQuantity int64  `json:"new_quantity"`
}

// MutationEntryDTO una línea del ledger en respuestas.
type MutationEntryDTO struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	Delta         int64     `json:"delta"`
	QuantityAfter int64     `json:"quantity_after"`
	ChangeType    string    `json:"change_type"`
	Reason        string    `json:"reason,omitempty"`
	ActorID       string    `json:"actor_id"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// StockStatusResponse clasificación de stock de un producto.
type StockStatusResponse struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	Threshold int64  `json:"threshold"`
	Status    string `json:"status"`
}
