package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/memory"
)

func seedRecord(t *testing.T, store *memory.Store, productID string, quantity int64) {
	t.Helper()
	rec := entity.NewStockRecord(productID, "", time.Now())
	rec.Quantity = quantity
	require.NoError(t, store.Records().Create(rec))
}

// TestRun_ErrorDescartaEscrituras: un error del callback hace rollback; ni el
// registro ni el ledger quedan tocados.
func TestRun_ErrorDescartaEscrituras(t *testing.T) {
	store := memory.NewStore()
	seedRecord(t, store, "p1", 10)

	boom := errors.New("boom")
	err := store.Run(context.Background(), func(
		recordRepo repository.StockRecordRepository,
		ledgerRepo repository.MutationLedgerRepository,
	) error {
		rec, err := recordRepo.GetForUpdate("p1")
		require.NoError(t, err)
		rec.Quantity = 999
		require.NoError(t, recordRepo.Save(rec))
		require.NoError(t, ledgerRepo.Append(&entity.MutationEntry{
			ID: "e1", ProductID: "p1", Delta: 989, QuantityAfter: 999,
			ChangeType: entity.ChangeTypeAdded, OccurredAt: time.Now(),
		}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	rec, err := store.Records().Get("p1")
	require.NoError(t, err)
	assert.Equal(t, int64(10), rec.Quantity, "el rollback descarta la escritura")

	entries, err := store.Ledger().List("p1", nil, nil, 10)
	require.NoError(t, err)
	assert.Empty(t, entries, "el rollback descarta el append")
}

// TestRun_CommitEsAtomico: mientras la transacción no confirma, los lectores
// ven el estado anterior completo (nunca cantidad nueva sin su entrada).
func TestRun_CommitEsAtomico(t *testing.T) {
	store := memory.NewStore()
	seedRecord(t, store, "p1", 0)

	inTx := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- store.Run(context.Background(), func(
			recordRepo repository.StockRecordRepository,
			ledgerRepo repository.MutationLedgerRepository,
		) error {
			rec, err := recordRepo.GetForUpdate("p1")
			if err != nil {
				return err
			}
			rec.Quantity = 5
			if err := recordRepo.Save(rec); err != nil {
				return err
			}
			if err := ledgerRepo.Append(&entity.MutationEntry{
				ID: "e1", ProductID: "p1", Delta: 5, QuantityAfter: 5,
				ChangeType: entity.ChangeTypeAdded, OccurredAt: time.Now(),
			}); err != nil {
				return err
			}
			close(inTx)
			<-release // la tx sigue abierta
			return nil
		})
	}()

	<-inTx
	// Lectura concurrente con la tx abierta: estado anterior completo
	rec, err := store.Records().Get("p1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), rec.Quantity)
	entries, err := store.Ledger().List("p1", nil, nil, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)

	close(release)
	require.NoError(t, <-done)

	// Tras el commit: cantidad y entrada aparecen juntas
	rec, err = store.Records().Get("p1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), rec.Quantity)
	entries, err = store.Ledger().List("p1", nil, nil, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(5), entries[0].QuantityAfter)
}

func TestCreate_Duplicado(t *testing.T) {
	store := memory.NewStore()
	seedRecord(t, store, "p1", 0)
	err := store.Records().Create(entity.NewStockRecord("p1", "", time.Now()))
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}
