package fuel

import (
	"context"
	"time"

	"github.com/lunemec/fuel-accountant/pkg/domain/fuel/aggregate"
	"github.com/lunemec/fuel-accountant/pkg/domain/fuel/entity"
)

type Repository interface {
	Name() string
	Transactions(ctx context.Context, from, to time.Time) ([]aggregate.Transaction, error)
}

// Store is a Repository that can also be written to.
type Store interface {
	Repository
	Save(ctx context.Context, transaction *aggregate.Transaction) error
	Transaction(ctx context.Context, id entity.TransactionID) (*aggregate.Transaction, error)
	SetFrozen(ctx context.Context, id entity.TransactionID, frozen bool) error
	Delete(ctx context.Context, id entity.TransactionID) error
}
