package stock

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
	domstock "github.com/jhoicas/stock-ledger-api/internal/domain/stock"
)

// DefaultHistoryLimit tope por defecto del historial (válvula de seguridad).
const DefaultHistoryLimit = 50

// MaxHistoryLimit tope duro para el parámetro limit.
const MaxHistoryLimit = 500

// QueryUseCase consultas de solo lectura: historial del ledger y clasificación
// de stock. No toma locks; lee el estado ya confirmado.
type QueryUseCase struct {
	recordRepo repository.StockRecordRepository
	ledgerRepo repository.MutationLedgerRepository
	threshold  int64 // umbral de stock bajo por defecto (configurable)
}

// NewQueryUseCase construye las consultas. threshold <= 0 usa el default del dominio.
func NewQueryUseCase(recordRepo repository.StockRecordRepository, ledgerRepo repository.MutationLedgerRepository, threshold int64) *QueryUseCase {
	if threshold <= 0 {
		threshold = domstock.DefaultLowStockThreshold
	}
	return &QueryUseCase{recordRepo: recordRepo, ledgerRepo: ledgerRepo, threshold: threshold}
}

// GetHistory devuelve entradas del ledger, más recientes primero.
// productID vacío lista todos los productos; limit <= 0 aplica DefaultHistoryLimit.
func (uc *QueryUseCase) GetHistory(ctx context.Context, productID string, from, to *time.Time, limit int) ([]*entity.MutationEntry, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	return uc.ledgerRepo.List(productID, from, to, limit)
}

// StockStatus clasificación del caso de uso de reportes.
type StockStatus struct {
	ProductID string
	Name      string
	Quantity  int64
	Threshold int64
	Status    string
}

// Classify clasifica el stock de un producto. threshold <= 0 usa el configurado.
func (uc *QueryUseCase) Classify(ctx context.Context, productID string, threshold int64) (*StockStatus, error) {
	rec, err := uc.recordRepo.Get(productID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	if threshold <= 0 {
		threshold = uc.threshold
	}
	return &StockStatus{
		ProductID: rec.ProductID,
		Name:      rec.Name,
		Quantity:  rec.Quantity,
		Threshold: threshold,
		Status:    domstock.Classify(rec.Quantity, threshold),
	}, nil
}

// lowStockPageSize tamaño de página al recorrer los productos activos.
const lowStockPageSize = 500

// LowStockReport lista los productos activos que están bajos o agotados
// (lectura derivada; no bloquea escritores). Recorre el listado completo
// por páginas: el reporte no se trunca por grande que sea el catálogo.
func (uc *QueryUseCase) LowStockReport(ctx context.Context, threshold int64) ([]*StockStatus, error) {
	if threshold <= 0 {
		threshold = uc.threshold
	}
	var out []*StockStatus
	for offset := 0; ; offset += lowStockPageSize {
		records, err := uc.recordRepo.ListActive(lowStockPageSize, offset)
		if err != nil {
			return nil, err
		}
		for _, rec := range records {
			status := domstock.Classify(rec.Quantity, threshold)
			if status == domstock.StatusInStock {
				continue
			}
			out = append(out, &StockStatus{
				ProductID: rec.ProductID,
				Name:      rec.Name,
				Quantity:  rec.Quantity,
				Threshold: threshold,
				Status:    status,
			})
		}
		if len(records) < lowStockPageSize {
			return out, nil
		}
	}
}
