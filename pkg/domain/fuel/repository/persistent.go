package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lunemec/fuel-accountant/pkg/domain/fuel"
	"github.com/lunemec/fuel-accountant/pkg/domain/fuel/aggregate"
	"github.com/lunemec/fuel-accountant/pkg/domain/fuel/entity"

	"github.com/asdine/storm/v3"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type persistentRepository struct {
	log        *zap.Logger
	db         *storm.DB
	fleetNode  storm.Node
	fleet      string
	source     fuel.Repository
	staleAfter time.Duration
}

const (
	metadataKey = "metadata"
)

var ErrNotFound = errors.New("transaction not found")

type Metadata struct {
	Metadata  string `storm:"id,unique"`
	UpdatedAt time.Time
}

// Tombstone marks a transaction deleted locally, sync does not bring it back.
type Tombstone struct {
	ID        entity.TransactionID `storm:"id"`
	DeletedAt time.Time
}

// New returns storm backed repository for a single fleet. When source is not
// nil its transactions are copied into the DB once the last sync is older
// than staleAfter.
func New(log *zap.Logger, db *storm.DB, fleet string, source fuel.Repository, staleAfter time.Duration) *persistentRepository {
	return &persistentRepository{
		log:        log,
		db:         db,
		fleetNode:  db.From(fleet),
		fleet:      fleet,
		source:     source,
		staleAfter: staleAfter,
	}
}

func (r *persistentRepository) Name() string {
	return r.fleet
}

func (r *persistentRepository) Transactions(ctx context.Context, from, to time.Time) ([]aggregate.Transaction, error) {
	if r.source != nil {
		lastUpdatedAt, err := r.updatedAt()
		if err != nil {
			return nil, errors.Wrap(err, "error checking last sync date")
		}
		if time.Since(lastUpdatedAt) > r.staleAfter {
			_, err = r.Sync(ctx)
			if err != nil {
				return nil, errors.Wrap(err, "error syncing local DB")
			}
		}
	}

	var transactions []aggregate.Transaction
	err := r.fleetNode.Range("Date", normalizeDate(from), normalizeDate(to), &transactions)
	if err != nil && !errors.Is(err, storm.ErrNotFound) {
		return nil, errors.Wrap(err, "error fetching transactions from DB")
	}
	return transactions, nil
}

func (r *persistentRepository) Transaction(ctx context.Context, id entity.TransactionID) (*aggregate.Transaction, error) {
	var transaction aggregate.Transaction
	err := r.fleetNode.One("ID", id, &transaction)
	if err != nil {
		if errors.Is(err, storm.ErrNotFound) {
			return nil, errors.Wrapf(ErrNotFound, "id: %s", id)
		}
		return nil, errors.Wrapf(err, "error loading transaction: %s", id)
	}
	return &transaction, nil
}

// Save assigns a new ID to transactions without one.
func (r *persistentRepository) Save(ctx context.Context, transaction *aggregate.Transaction) error {
	if transaction.ID == "" {
		transaction.ID = entity.TransactionID(uuid.New().String())
	}
	prepare(transaction)
	return errors.Wrapf(r.fleetNode.Save(transaction), "error saving transaction: %s", transaction.ID)
}

func (r *persistentRepository) SetFrozen(ctx context.Context, id entity.TransactionID, frozen bool) error {
	transaction, err := r.Transaction(ctx, id)
	if err != nil {
		return err
	}
	err = r.fleetNode.UpdateField(transaction, "Frozen", frozen)
	if err != nil {
		return errors.Wrapf(err, "error updating frozen flag of: %s", id)
	}
	r.log.Info("transaction frozen flag updated", zap.String("id", string(id)), zap.Bool("frozen", frozen))
	return nil
}

// Delete removes the transaction and leaves a tombstone so that the next
// sync does not restore it from the source.
func (r *persistentRepository) Delete(ctx context.Context, id entity.TransactionID) error {
	tx, err := r.fleetNode.Begin(true)
	if err != nil {
		return errors.Wrap(err, "unable to begin tx")
	}
	defer tx.Rollback()

	var transaction aggregate.Transaction
	err = tx.One("ID", id, &transaction)
	if err != nil {
		if errors.Is(err, storm.ErrNotFound) {
			return errors.Wrapf(ErrNotFound, "id: %s", id)
		}
		return errors.Wrapf(err, "error loading transaction: %s", id)
	}
	err = tx.DeleteStruct(&transaction)
	if err != nil {
		return errors.Wrapf(err, "error deleting transaction: %s", id)
	}
	err = tx.Save(&Tombstone{ID: id, DeletedAt: time.Now()})
	if err != nil {
		return errors.Wrapf(err, "error saving tombstone: %s", id)
	}
	return errors.Wrap(tx.Commit(), "error commiting tx")
}

// Sync copies every transaction of the source into the DB and returns how
// many were stored. Records already present are overwritten, except for their
// frozen flag which is owned locally. Deleted records stay deleted.
func (r *persistentRepository) Sync(ctx context.Context) (int, error) {
	if r.source == nil {
		return 0, nil
	}
	transactions, err := r.source.Transactions(ctx, time.Time{}, time.Time{})
	if err != nil {
		return 0, errors.Wrapf(err, "error reading source: %s", r.source.Name())
	}

	tx, err := r.fleetNode.Begin(true)
	if err != nil {
		return 0, errors.Wrap(err, "unable to begin tx")
	}
	defer tx.Rollback()

	var (
		seen    = make(map[string]int)
		synced  int
		skipped int
	)
	for i := range transactions {
		transaction := transactions[i]
		if transaction.ID == "" {
			transaction.ID, err = sourceID(r.source.Name(), transaction, seen)
			if err != nil {
				return 0, err
			}
		}
		prepare(&transaction)

		var tombstone Tombstone
		err = tx.One("ID", transaction.ID, &tombstone)
		switch {
		case err == nil:
			skipped++
			continue
		case !errors.Is(err, storm.ErrNotFound):
			return 0, errors.Wrapf(err, "error loading tombstone: %s", transaction.ID)
		}

		var existing aggregate.Transaction
		err = tx.One("ID", transaction.ID, &existing)
		switch {
		case err == nil:
			transaction.Frozen = existing.Frozen
		case !errors.Is(err, storm.ErrNotFound):
			return 0, errors.Wrapf(err, "error loading transaction: %s", transaction.ID)
		}

		err = tx.Save(&transaction)
		if err != nil {
			return 0, errors.Wrap(err, "error saving synced transaction")
		}
		synced++
	}
	err = tx.Save(&Metadata{Metadata: metadataKey, UpdatedAt: time.Now()})
	if err != nil {
		return 0, errors.Wrap(err, "unable to update metadata")
	}
	err = tx.Commit()
	if err != nil {
		return 0, errors.Wrap(err, "error commiting tx")
	}

	r.log.Info("transactions synced",
		zap.String("fleet", r.fleet),
		zap.String("source", r.source.Name()),
		zap.Int("count", synced),
		zap.Int("deleted_skipped", skipped),
	)
	return synced, nil
}

// sourceID derives a stable ID for a source record without one, so repeated
// syncs update it instead of adding it again. Identical records are told
// apart by their order of appearance.
func sourceID(source string, transaction aggregate.Transaction, seen map[string]int) (entity.TransactionID, error) {
	transaction.Frozen = false
	b, err := json.Marshal(transaction)
	if err != nil {
		return "", errors.Wrap(err, "unable to encode source transaction")
	}
	key := string(b)
	occurrence := seen[key]
	seen[key]++
	name := fmt.Sprintf("%s\n%s\n%d", source, key, occurrence)
	return entity.TransactionID(uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()), nil
}

func (r *persistentRepository) updatedAt() (time.Time, error) {
	var metadata Metadata
	err := r.fleetNode.One("Metadata", metadataKey, &metadata)
	if err != nil {
		if errors.Is(err, storm.ErrNotFound) {
			return metadata.UpdatedAt, nil
		}
		return metadata.UpdatedAt, errors.Wrap(err, "error loading metadata")
	}
	return metadata.UpdatedAt, nil
}

// prepare books records without a date at aggregate.UndatedDate, storm does
// not index zero values and Range would never return them.
func prepare(transaction *aggregate.Transaction) {
	if transaction.Date.IsZero() {
		transaction.Date = aggregate.UndatedDate
		transaction.Undated = true
	}
	transaction.Date = normalizeDate(transaction.Date)
}

// Dates are indexed by their JSON encoding, whole seconds in UTC keep the
// byte order equal to the time order.
func normalizeDate(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}
