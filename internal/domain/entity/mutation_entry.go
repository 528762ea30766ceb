package entity

import "time"

// Tipos de cambio de una entrada del ledger (derivados del signo del delta).
const (
	ChangeTypeAdded   = "Added"   // delta positivo
	ChangeTypeRemoved = "Removed" // delta negativo
)

// MutationEntry es una entrada inmutable del ledger de mutaciones. Delta lleva
// signo y QuantityAfter es la cantidad del producto confirmada tras aplicar
// esta entrada (suma prefija de los deltas en orden de commit).
type MutationEntry struct {
	ID            string
	ProductID     string
	Delta         int64
	QuantityAfter int64
	ChangeType    string // Added, Removed
	Reason        string
	ActorID       string
	OccurredAt    time.Time
}

// ChangeTypeForDelta devuelve el tipo de cambio para un delta con signo.
func ChangeTypeForDelta(delta int64) string {
	if delta < 0 {
		return ChangeTypeRemoved
	}
	return ChangeTypeAdded
}
