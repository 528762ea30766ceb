package stock

// Estados de stock para reporting (servicio de dominio puro).
const (
	StatusOutOfStock = "OutOfStock"
	StatusLow        = "Low"
	StatusInStock    = "InStock"
)

// DefaultLowStockThreshold umbral por defecto cuando el llamador no indica uno.
const DefaultLowStockThreshold = 10

// Classify clasifica una cantidad frente a un umbral:
// 0 -> OutOfStock; 0 < q <= umbral -> Low; q > umbral -> InStock.
// Si threshold <= 0 se aplica DefaultLowStockThreshold.
func Classify(quantity, threshold int64) string {
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	switch {
	case quantity <= 0:
		return StatusOutOfStock
	case quantity <= threshold:
		return StatusLow
	default:
		return StatusInStock
	}
}
