package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ repository.StockRecordRepository = (*StockRecordRepo)(nil)

// StockRecordRepo implementación de StockRecordRepository sobre PostgreSQL
// (usable con pool o tx).
type StockRecordRepo struct {
	q Querier
}

// NewStockRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockRecordRepository(q Querier) *StockRecordRepo {
	return &StockRecordRepo{q: q}
}

// Create inserta el registro inicial (cantidad 0, activo).
func (r *StockRecordRepo) Create(record *entity.StockRecord) error {
	query := `
		INSERT INTO stock_records (product_id, name, quantity, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		record.ProductID, record.Name, record.Quantity, record.IsActive,
		record.CreatedAt, record.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert stock record: %w", err)
	}
	return nil
}

// Get obtiene el registro sin bloquear. Devuelve (nil, nil) si no existe.
func (r *StockRecordRepo) Get(productID string) (*entity.StockRecord, error) {
	return r.get(productID, false)
}

// GetForUpdate obtiene el registro y bloquea la fila (SELECT FOR UPDATE) hasta
// el fin de la transacción. Devuelve (nil, nil) si no existe.
func (r *StockRecordRepo) GetForUpdate(productID string) (*entity.StockRecord, error) {
	return r.get(productID, true)
}

func (r *StockRecordRepo) get(productID string, forUpdate bool) (*entity.StockRecord, error) {
	query := `
		SELECT product_id, name, quantity, is_active, created_at, updated_at
		FROM stock_records WHERE product_id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var rec entity.StockRecord
	err := r.q.QueryRow(context.Background(), query, productID).Scan(
		&rec.ProductID, &rec.Name, &rec.Quantity, &rec.IsActive, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock record: %w", err)
	}
	return &rec, nil
}

// Save persiste cantidad, bandera de activo y updated_at del registro.
func (r *StockRecordRepo) Save(record *entity.StockRecord) error {
	query := `
		UPDATE stock_records
		SET quantity = $2, is_active = $3, updated_at = $4
		WHERE product_id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		record.ProductID, record.Quantity, record.IsActive, record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save stock record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListActive lista los registros activos ordenados por product_id.
func (r *StockRecordRepo) ListActive(limit, offset int) ([]*entity.StockRecord, error) {
	query := `
		SELECT product_id, name, quantity, is_active, created_at, updated_at
		FROM stock_records WHERE is_active
		ORDER BY product_id LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list active stock records: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockRecord
	for rows.Next() {
		var rec entity.StockRecord
		if err := rows.Scan(&rec.ProductID, &rec.Name, &rec.Quantity, &rec.IsActive,
			&rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock record: %w", err)
		}
		list = append(list, &rec)
	}
	return list, rows.Err()
}
