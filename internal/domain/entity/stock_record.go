package entity

import "time"

// StockRecord representa el stock vigente de un producto. La cantidad nunca es
// negativa y IsActive es una transición de una sola vía: una vez desactivado,
// el registro no vuelve a activarse.
type StockRecord struct {
	ProductID string
	Name      string // nombre de despliegue opcional
	Quantity  int64
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewStockRecord crea un registro activo con cantidad cero.
func NewStockRecord(productID, name string, now time.Time) *StockRecord {
	return &StockRecord{
		ProductID: productID,
		Name:      name,
		Quantity:  0,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
