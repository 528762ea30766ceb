package stock

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// MutationUseCase aplica entradas y salidas de stock de forma transaccional:
// bloqueo de la fila del producto (SELECT FOR UPDATE), chequeo de invariantes
// y append al ledger en la misma transacción (Commit/Rollback).
type MutationUseCase struct {
	txRunner TxRunner
}

// NewMutationUseCase construye el caso de uso.
func NewMutationUseCase(txRunner TxRunner) *MutationUseCase {
	return &MutationUseCase{txRunner: txRunner}
}

// AddStock suma quantity (> 0) al producto y registra la entrada en el ledger.
// Devuelve la nueva cantidad confirmada.
func (uc *MutationUseCase) AddStock(ctx context.Context, productID, actorID string, quantity int64, reason string) (int64, error) {
	if quantity <= 0 {
		return 0, domain.ErrInvalidInput
	}
	return uc.apply(ctx, productID, actorID, quantity, reason)
}

// RemoveStock resta quantity (> 0) del producto. Si la cantidad actual es menor
// a la solicitada rechaza con InsufficientStockError sin mutar nada.
func (uc *MutationUseCase) RemoveStock(ctx context.Context, productID, actorID string, quantity int64, reason string) (int64, error) {
	if quantity <= 0 {
		return 0, domain.ErrInvalidInput
	}
	return uc.apply(ctx, productID, actorID, -quantity, reason)
}

// apply ejecuta una mutación con delta con signo. La secuencia completa corre
// con la fila bloqueada: leer cantidad, validar, actualizar registro y anexar
// la entrada del ledger con QuantityAfter igual a la cantidad ya confirmada.
func (uc *MutationUseCase) apply(ctx context.Context, productID, actorID string, delta int64, reason string) (int64, error) {
	var newQuantity int64

	err := uc.txRunner.Run(ctx, func(
		recordRepo repository.StockRecordRepository,
		ledgerRepo repository.MutationLedgerRepository,
	) error {
		// Bloquea la fila del producto: serializa mutaciones del mismo producto
		rec, err := recordRepo.GetForUpdate(productID)
		if err != nil {
			return err
		}
		if rec == nil {
			return domain.ErrNotFound
		}
		if !rec.IsActive {
			return domain.ErrProductInactive
		}
		if delta < 0 && rec.Quantity < -delta {
			return &domain.InsufficientStockError{
				ProductID: productID,
				Requested: -delta,
				Available: rec.Quantity,
			}
		}

		// Reloj bajo el lock: OccurredAt queda no-decreciente en orden de commit
		now := time.Now()
		rec.Quantity += delta
		rec.UpdatedAt = now
		if err := recordRepo.Save(rec); err != nil {
			return err
		}

		entry := &entity.MutationEntry{
			ID:            uuid.New().String(),
			ProductID:     productID,
			Delta:         delta,
			QuantityAfter: rec.Quantity,
			ChangeType:    entity.ChangeTypeForDelta(delta),
			Reason:        reason,
			ActorID:       actorID,
			OccurredAt:    now,
		}
		if err := ledgerRepo.Append(entry); err != nil {
			return err
		}
		newQuantity = rec.Quantity
		return nil
	})
	if err != nil {
		return 0, err
	}
	return newQuantity, nil
}
