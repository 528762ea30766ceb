package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound        = errors.New("recurso no encontrado")
	ErrInvalidInput    = errors.New("entrada inválida")
	ErrDuplicate       = errors.New("recurso duplicado")
	ErrProductInactive = errors.New("producto desactivado")
)

// InsufficientStockError rechazo de negocio: la salida excede el stock actual.
// El registro y el ledger quedan exactamente como estaban.
type InsufficientStockError struct {
	ProductID string
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %s: solicitado %d, disponible %d",
		e.ProductID, e.Requested, e.Available)
}

// HasStockError rechazo de negocio: se intentó desactivar un producto con stock.
// Incluye la cantidad que causó el rechazo para el mensaje al usuario.
type HasStockError struct {
	ProductID string
	Quantity  int64
}

func (e *HasStockError) Error() string {
	return fmt.Sprintf("el producto %s tiene %d unidades en stock", e.ProductID, e.Quantity)
}
