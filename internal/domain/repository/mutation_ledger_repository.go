package repository

import (
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// MutationLedgerRepository puerto del ledger append-only.
// Append solo se invoca desde el servicio de mutaciones, dentro de la misma
// transacción que actualiza la cantidad; las entradas jamás se modifican.
type MutationLedgerRepository interface {
	Append(entry *entity.MutationEntry) error
	// List devuelve entradas más recientes primero. productID vacío = todas;
	// from/to acotan OccurredAt; limit siempre > 0 (el caso de uso aplica el default).
	List(productID string, from, to *time.Time, limit int) ([]*entity.MutationEntry, error)
}
