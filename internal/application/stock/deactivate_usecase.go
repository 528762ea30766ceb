package stock

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// DeactivateUseCase guarda de eliminación: desactiva un producto solo si su
// cantidad es cero en el instante del commit. El chequeo y la escritura ocurren
// sobre la fila bloqueada, nunca sobre una cantidad leída antes; un AddStock
// concurrente no puede colarse entre la validación y el commit.
type DeactivateUseCase struct {
	txRunner TxRunner
}

// NewDeactivateUseCase construye el guard.
func NewDeactivateUseCase(txRunner TxRunner) *DeactivateUseCase {
	return &DeactivateUseCase{txRunner: txRunner}
}

// Deactivate marca el producto como inactivo. Si tiene stock rechaza con
// HasStockError (incluye la cantidad que causó el rechazo). Idempotente sobre
// un producto ya inactivo.
func (uc *DeactivateUseCase) Deactivate(ctx context.Context, productID string) error {
	return uc.txRunner.Run(ctx, func(
		recordRepo repository.StockRecordRepository,
		_ repository.MutationLedgerRepository,
	) error {
		rec, err := recordRepo.GetForUpdate(productID)
		if err != nil {
			return err
		}
		if rec == nil {
			return domain.ErrNotFound
		}
		if !rec.IsActive {
			return nil
		}
		// Re-chequeo sobre el estado bloqueado: la cantidad vigente, no la del request
		if rec.Quantity != 0 {
			return &domain.HasStockError{ProductID: productID, Quantity: rec.Quantity}
		}
		rec.IsActive = false
		rec.UpdatedAt = time.Now()
		return recordRepo.Save(rec)
	})
}
