package repository

import "github.com/jhoicas/stock-ledger-api/internal/domain/entity"

// StockRecordRepository puerto de persistencia del registro de stock.
// Get lee sin bloquear; GetForUpdate bloquea la fila del producto hasta el fin
// de la transacción (serializa las mutaciones sobre el mismo producto).
// Ambos devuelven (nil, nil) si el producto no existe.
type StockRecordRepository interface {
	Create(record *entity.StockRecord) error
	Get(productID string) (*entity.StockRecord, error)
	GetForUpdate(productID string) (*entity.StockRecord, error)
	// Save persiste Quantity, IsActive y UpdatedAt del registro ya bloqueado.
	Save(record *entity.StockRecord) error
	// ListActive lista los registros activos (para el reporte de stock bajo).
	ListActive(limit, offset int) ([]*entity.StockRecord, error)
}
