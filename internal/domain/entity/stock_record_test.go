package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

func TestNewStockRecord_ActivoYEnCero(t *testing.T) {
	now := time.Now()
	rec := entity.NewStockRecord("p1", "Tornillos", now)

	assert.Equal(t, "p1", rec.ProductID)
	assert.Equal(t, "Tornillos", rec.Name)
	assert.Equal(t, int64(0), rec.Quantity, "un registro nuevo arranca sin stock")
	assert.True(t, rec.IsActive)
	assert.Equal(t, now, rec.CreatedAt)
	assert.Equal(t, now, rec.UpdatedAt)
}

func TestChangeTypeForDelta(t *testing.T) {
	assert.Equal(t, entity.ChangeTypeAdded, entity.ChangeTypeForDelta(5))
	assert.Equal(t, entity.ChangeTypeRemoved, entity.ChangeTypeForDelta(-5))
}
