package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// Ensure los repos cumplen los puertos del dominio.
var (
	_ repository.StockRecordRepository    = (*recordRepo)(nil)
	_ repository.StockRecordRepository    = (*txRecordRepo)(nil)
	_ repository.MutationLedgerRepository = (*ledgerRepo)(nil)
	_ repository.MutationLedgerRepository = (*txLedgerRepo)(nil)
)

// Store adaptador de persistencia en memoria. Emula la semántica del adaptador
// PostgreSQL: un lock por fila de producto (el equivalente de SELECT FOR
// UPDATE) y commit atómico de registro + ledger al final de la transacción.
// Lo usan los tests y el modo STORAGE=memory para desarrollo local.
type Store struct {
	mu      sync.Mutex // protege records, entries y locks
	records map[string]*entity.StockRecord
	entries []*entity.MutationEntry // orden de commit
	locks   map[string]*sync.Mutex  // row lock por productID
}

// NewStore crea el almacén vacío.
func NewStore() *Store {
	return &Store{
		records: make(map[string]*entity.StockRecord),
		locks:   make(map[string]*sync.Mutex),
	}
}

// rowLock devuelve (creando si hace falta) el lock de fila del producto.
func (s *Store) rowLock(productID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[productID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[productID] = l
	}
	return l
}

func cloneRecord(r *entity.StockRecord) *entity.StockRecord {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

func cloneEntry(e *entity.MutationEntry) *entity.MutationEntry {
	c := *e
	return &c
}

// Records devuelve el repositorio de registros sobre el estado confirmado.
func (s *Store) Records() repository.StockRecordRepository {
	return &recordRepo{s: s}
}

// Ledger devuelve el repositorio del ledger sobre el estado confirmado.
func (s *Store) Ledger() repository.MutationLedgerRepository {
	return &ledgerRepo{s: s}
}

// ── repos confirmados (lecturas fuera de transacción) ────────────────────────

type recordRepo struct {
	s *Store
}

func (r *recordRepo) Create(record *entity.StockRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.records[record.ProductID]; ok {
		return domain.ErrDuplicate
	}
	r.s.records[record.ProductID] = cloneRecord(record)
	return nil
}

func (r *recordRepo) Get(productID string) (*entity.StockRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return cloneRecord(r.s.records[productID]), nil
}

// GetForUpdate fuera de una transacción no retiene el lock; las mutaciones
// siempre entran por Store.Run.
func (r *recordRepo) GetForUpdate(productID string) (*entity.StockRecord, error) {
	return r.Get(productID)
}

func (r *recordRepo) Save(record *entity.StockRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.records[record.ProductID]; !ok {
		return domain.ErrNotFound
	}
	r.s.records[record.ProductID] = cloneRecord(record)
	return nil
}

func (r *recordRepo) ListActive(limit, offset int) ([]*entity.StockRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.StockRecord
	for _, rec := range r.s.records {
		if rec.IsActive {
			out = append(out, cloneRecord(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type ledgerRepo struct {
	s *Store
}

// Append fuera de transacción solo existe para cumplir el puerto; el servicio
// de mutaciones siempre anexa dentro de Store.Run.
func (r *ledgerRepo) Append(entry *entity.MutationEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.entries = append(r.s.entries, cloneEntry(entry))
	return nil
}

func (r *ledgerRepo) List(productID string, from, to *time.Time, limit int) ([]*entity.MutationEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.MutationEntry
	// Más recientes primero: recorrer el orden de commit desde el final
	for i := len(r.s.entries) - 1; i >= 0 && len(out) < limit; i-- {
		e := r.s.entries[i]
		if productID != "" && e.ProductID != productID {
			continue
		}
		if from != nil && e.OccurredAt.Before(*from) {
			continue
		}
		if to != nil && e.OccurredAt.After(*to) {
			continue
		}
		out = append(out, cloneEntry(e))
	}
	return out, nil
}

// ── transacciones ────────────────────────────────────────────────────────────

// tx acumula escrituras y las aplica como una sola unidad en el commit.
type tx struct {
	store    *Store
	locked   []*sync.Mutex
	working  map[string]*entity.StockRecord // copias de trabajo por producto
	missing  map[string]bool                // productos bloqueados que no existen
	created  []*entity.StockRecord
	dirty    map[string]bool
	appended []*entity.MutationEntry
}

// Run implementa stock.TxRunner: ejecuta fn con repos atados a la transacción,
// hace commit si fn retorna nil y libera los row locks al final. Un error de fn
// descarta todas las escrituras (rollback).
func (s *Store) Run(_ context.Context, fn func(
	recordRepo repository.StockRecordRepository,
	ledgerRepo repository.MutationLedgerRepository,
) error) error {
	t := &tx{
		store:   s,
		working: make(map[string]*entity.StockRecord),
		missing: make(map[string]bool),
		dirty:   make(map[string]bool),
	}
	defer t.release()

	if err := fn(&txRecordRepo{t: t}, &txLedgerRepo{t: t}); err != nil {
		return err
	}
	return t.commit()
}

func (t *tx) release() {
	for _, l := range t.locked {
		l.Unlock()
	}
	t.locked = nil
}

// commit aplica creaciones, registros sucios y entradas del ledger bajo el
// mutex global: ningún lector observa el estado a medias.
func (t *tx) commit() error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for _, rec := range t.created {
		if _, ok := t.store.records[rec.ProductID]; ok {
			return domain.ErrDuplicate
		}
		t.store.records[rec.ProductID] = cloneRecord(rec)
	}
	for productID := range t.dirty {
		t.store.records[productID] = cloneRecord(t.working[productID])
	}
	for _, e := range t.appended {
		t.store.entries = append(t.store.entries, cloneEntry(e))
	}
	return nil
}

type txRecordRepo struct {
	t *tx
}

func (r *txRecordRepo) Create(record *entity.StockRecord) error {
	r.t.created = append(r.t.created, cloneRecord(record))
	return nil
}

func (r *txRecordRepo) Get(productID string) (*entity.StockRecord, error) {
	if rec, ok := r.t.working[productID]; ok {
		return rec, nil
	}
	return (&recordRepo{s: r.t.store}).Get(productID)
}

// GetForUpdate toma el row lock del producto (se libera al terminar la
// transacción) y devuelve la copia de trabajo sobre la que opera el resto
// de la transacción.
func (r *txRecordRepo) GetForUpdate(productID string) (*entity.StockRecord, error) {
	if rec, ok := r.t.working[productID]; ok {
		return rec, nil
	}
	if r.t.missing[productID] {
		return nil, nil
	}
	l := r.t.store.rowLock(productID)
	l.Lock()
	r.t.locked = append(r.t.locked, l)

	r.t.store.mu.Lock()
	rec := cloneRecord(r.t.store.records[productID])
	r.t.store.mu.Unlock()
	if rec == nil {
		r.t.missing[productID] = true
		return nil, nil
	}
	r.t.working[productID] = rec
	return rec, nil
}

func (r *txRecordRepo) Save(record *entity.StockRecord) error {
	r.t.working[record.ProductID] = record
	r.t.dirty[record.ProductID] = true
	return nil
}

func (r *txRecordRepo) ListActive(limit, offset int) ([]*entity.StockRecord, error) {
	return (&recordRepo{s: r.t.store}).ListActive(limit, offset)
}

type txLedgerRepo struct {
	t *tx
}

func (r *txLedgerRepo) Append(entry *entity.MutationEntry) error {
	r.t.appended = append(r.t.appended, cloneEntry(entry))
	return nil
}

func (r *txLedgerRepo) List(productID string, from, to *time.Time, limit int) ([]*entity.MutationEntry, error) {
	return (&ledgerRepo{s: r.t.store}).List(productID, from, to, limit)
}
