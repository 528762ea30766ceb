package stock

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// CreateUseCase alta del registro de stock de un producto nuevo
// (cantidad 0, activo). El CRUD de atributos del producto vive fuera del core.
type CreateUseCase struct {
	recordRepo repository.StockRecordRepository
}

// NewCreateUseCase construye el caso de uso.
func NewCreateUseCase(recordRepo repository.StockRecordRepository) *CreateUseCase {
	return &CreateUseCase{recordRepo: recordRepo}
}

// Create crea el registro. productID vacío genera un UUID. Si el ID ya existe
// el repositorio devuelve domain.ErrDuplicate.
func (uc *CreateUseCase) Create(ctx context.Context, productID, name string) (*entity.StockRecord, error) {
	if productID == "" {
		productID = uuid.New().String()
	}
	rec := entity.NewStockRecord(productID, name, time.Now())
	if err := uc.recordRepo.Create(rec); err != nil {
		return nil, err
	}
	return rec, nil
}
