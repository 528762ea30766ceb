package stock

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios
// atados a esa tx. Garantiza que la actualización de cantidad y el append al
// ledger sean una sola unidad atómica: ningún lector observa una sin la otra.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		recordRepo repository.StockRecordRepository,
		ledgerRepo repository.MutationLedgerRepository,
	) error) error
}
