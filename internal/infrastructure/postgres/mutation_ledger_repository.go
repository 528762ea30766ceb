package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ repository.MutationLedgerRepository = (*MutationLedgerRepo)(nil)

// MutationLedgerRepo implementación del ledger sobre PostgreSQL (usable con
// pool o tx). Solo inserta y lee; las entradas nunca se actualizan ni borran.
type MutationLedgerRepo struct {
	q Querier
}

// NewMutationLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMutationLedgerRepository(q Querier) *MutationLedgerRepo {
	return &MutationLedgerRepo{q: q}
}

// Append inserta una entrada del ledger. Se invoca dentro de la misma
// transacción que actualiza stock_records.
func (r *MutationLedgerRepo) Append(entry *entity.MutationEntry) error {
	query := `
		INSERT INTO mutation_entries (id, product_id, delta, quantity_after, change_type, reason, actor_id, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	reason := (*string)(nil)
	if entry.Reason != "" {
		reason = &entry.Reason
	}
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.ProductID, entry.Delta, entry.QuantityAfter,
		entry.ChangeType, reason, entry.ActorID, entry.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("append mutation entry: %w", err)
	}
	return nil
}

// List devuelve entradas más recientes primero. productID vacío no filtra;
// from/to acotan occurred_at. El orden secundario por seq desempata entradas
// con el mismo occurred_at respetando el orden de commit.
func (r *MutationLedgerRepo) List(productID string, from, to *time.Time, limit int) ([]*entity.MutationEntry, error) {
	query := `
		SELECT id, product_id, delta, quantity_after, change_type, reason, actor_id, occurred_at
		FROM mutation_entries WHERE 1=1`
	args := []any{}
	pos := 1
	if productID != "" {
		query += fmt.Sprintf(" AND product_id = $%d", pos)
		args = append(args, productID)
		pos++
	}
	if from != nil {
		query += fmt.Sprintf(" AND occurred_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND occurred_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY occurred_at DESC, seq DESC LIMIT $%d", pos)
	args = append(args, limit)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list mutation entries: %w", err)
	}
	defer rows.Close()
	var list []*entity.MutationEntry
	for rows.Next() {
		var e entity.MutationEntry
		var reason *string
		if err := rows.Scan(&e.ID, &e.ProductID, &e.Delta, &e.QuantityAfter,
			&e.ChangeType, &reason, &e.ActorID, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan mutation entry: %w", err)
		}
		if reason != nil {
			e.Reason = *reason
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
