package fuel

import (
	"github.com/lunemec/fuel-accountant/pkg/domain/fuel/aggregate"
	"github.com/lunemec/fuel-accountant/pkg/domain/fuel/entity"
)

var operations = map[entity.Kind]entity.Operation{
	entity.KindPurchase:     entity.Purchase,
	entity.KindSale:         entity.Sale,
	entity.KindDrain:        entity.Drain,
	entity.KindBaseToBunker: entity.BaseToBunker,
	entity.KindBunkerToBase: entity.BunkerToBase,
}

// Classify maps the transaction type tag onto a fuel operation. Ledger-only
// entries (expenses, salaries, repairs, ...) come out as Unrecognized.
func Classify(transaction *aggregate.Transaction) entity.Operation {
	if transaction == nil {
		return entity.Unrecognized
	}
	return ClassifyKind(transaction.Kind)
}

func ClassifyKind(kind entity.Kind) entity.Operation {
	operation, ok := operations[kind.Normalize()]
	if !ok {
		return entity.Unrecognized
	}
	return operation
}

// counts reports whether the transaction takes part in inventory math at all.
func counts(transaction *aggregate.Transaction) bool {
	return transaction != nil && !transaction.Frozen && Classify(transaction) != entity.Unrecognized
}
