package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lunemec/fuel-accountant/pkg/domain/fuel/aggregate"
	"github.com/lunemec/fuel-accountant/pkg/domain/fuel/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

// Legacy exports were written by several generations of the app, each
// field is looked up under every name it was ever stored as.
var (
	idKeys        = []string{"id", "_id", "transaction_id"}
	kindKeys      = []string{"type", "kind", "operation"}
	volumeKeys    = []string{"volume", "liters", "quantity"}
	unitPriceKeys = []string{"unit_price", "unitPrice", "price", "price_per_liter"}
	totalCostKeys = []string{"total_cost", "totalCost", "total", "amount"}
	gradeKeys     = []string{"fuel_grade", "fuelGrade", "fuel_type", "grade"}
	frozenKeys    = []string{"frozen", "is_frozen", "isFrozen"}
	dateKeys      = []string{"timestamp", "date", "created_at", "createdAt"}
	userKeys      = []string{"user_id", "userId"}
	vesselKeys    = []string{"vessel_ref", "vesselRef", "vehicle_id", "vehicleId", "vessel"}
)

var idNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("fuel-accountant/jsonfile"))

type repository struct {
	log  *zap.Logger
	path string
}

// New returns a read only repository over a JSON export file.
func New(log *zap.Logger, path string) *repository {
	return &repository{
		log:  log,
		path: path,
	}
}

func (r *repository) Name() string {
	return filepath.Base(r.path)
}

// Transactions reads the whole file. Zero from or to leaves that side of the
// range open.
func (r *repository) Transactions(ctx context.Context, from, to time.Time) ([]aggregate.Transaction, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open: %s", r.path)
	}
	defer f.Close()

	transactions, err := Decode(r.log, f)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to decode: %s", r.path)
	}

	out := transactions[:0]
	for _, transaction := range transactions {
		if !from.IsZero() && transaction.Date.Before(from) {
			continue
		}
		if !to.IsZero() && transaction.Date.After(to) {
			continue
		}
		out = append(out, transaction)
	}
	return out, nil
}

// Decode reads a JSON array of raw records. A record that is not an object
// fails the whole decode, unreadable field values are left unset and logged.
// Records without an ID get one derived from their content, and records
// without a readable date are booked as undated.
func Decode(log *zap.Logger, reader io.Reader) ([]aggregate.Transaction, error) {
	decoder := json.NewDecoder(reader)
	decoder.UseNumber()

	var raw interface{}
	err := decoder.Decode(&raw)
	if err != nil {
		return nil, errors.Wrap(err, "invalid JSON")
	}
	records, ok := raw.([]interface{})
	if !ok {
		return nil, errors.Errorf("expected an array of records, got %T", raw)
	}

	var (
		transactions = make([]aggregate.Transaction, 0, len(records))
		seen         = make(map[string]int)
	)
	for i, record := range records {
		fields, ok := record.(map[string]interface{})
		if !ok {
			return nil, errors.Errorf("record at index %d is not an object", i)
		}
		transaction := mapRecordToAggregateTransaction(log.With(zap.Int("index", i)), fields)
		if transaction.ID == "" {
			transaction.ID, err = contentID(fields, seen)
			if err != nil {
				return nil, errors.Wrapf(err, "record at index %d", i)
			}
		}
		transactions = append(transactions, transaction)
	}
	return transactions, nil
}

// contentID hashes the record without its frozen flag, which is edited
// locally after import. Identical records are told apart by their order of
// appearance.
func contentID(record map[string]interface{}, seen map[string]int) (entity.TransactionID, error) {
	canonical := make(map[string]interface{}, len(record))
	for key, value := range record {
		canonical[key] = value
	}
	for _, key := range frozenKeys {
		delete(canonical, key)
	}
	b, err := json.Marshal(canonical)
	if err != nil {
		return "", errors.Wrap(err, "unable to encode record")
	}
	key := string(b)
	occurrence := seen[key]
	seen[key]++
	name := fmt.Sprintf("%s\n%d", key, occurrence)
	return entity.TransactionID(uuid.NewSHA1(idNamespace, []byte(name)).String()), nil
}

func mapRecordToAggregateTransaction(log *zap.Logger, record map[string]interface{}) aggregate.Transaction {
	transaction := aggregate.Transaction{
		ID:        entity.TransactionID(stringField(record, idKeys)),
		Kind:      entity.Kind(stringField(record, kindKeys)).Normalize(),
		Volume:    decimalField(log, record, volumeKeys),
		UnitPrice: decimalField(log, record, unitPriceKeys),
		TotalCost: decimalField(log, record, totalCostKeys),
		Grade:     entity.Grade(strings.ToLower(strings.TrimSpace(stringField(record, gradeKeys)))),
		UserID:    entity.UserID(stringField(record, userKeys)),
		VesselRef: entity.VesselRef(stringField(record, vesselKeys)),
	}

	if value, ok := lookup(record, frozenKeys); ok {
		if number, ok := value.(json.Number); ok {
			value = number.String()
		}
		frozen, err := cast.ToBoolE(value)
		if err != nil {
			log.Warn("unreadable frozen flag, assuming false", zap.Any("value", value), zap.Error(err))
		}
		transaction.Frozen = frozen
	}
	value, ok := lookup(record, dateKeys)
	if !ok {
		log.Warn("date missing, booked as undated")
		transaction.Date, transaction.Undated = aggregate.UndatedDate, true
		return transaction
	}
	date, err := cast.ToTimeE(plain(value))
	if err != nil || date.IsZero() {
		log.Warn("unreadable date, booked as undated", zap.Any("value", value), zap.Error(err))
		transaction.Date, transaction.Undated = aggregate.UndatedDate, true
		return transaction
	}
	transaction.Date = date.UTC()
	return transaction
}

func lookup(record map[string]interface{}, keys []string) (interface{}, bool) {
	for _, key := range keys {
		value, ok := record[key]
		if ok && value != nil {
			return value, true
		}
	}
	return nil, false
}

func stringField(record map[string]interface{}, keys []string) string {
	value, ok := lookup(record, keys)
	if !ok {
		return ""
	}
	return cast.ToString(plain(value))
}

// decimalField keeps numbers exact, json.Number and strings never pass through float64.
func decimalField(log *zap.Logger, record map[string]interface{}, keys []string) decimal.NullDecimal {
	value, ok := lookup(record, keys)
	if !ok {
		return decimal.NullDecimal{}
	}

	var (
		d   decimal.Decimal
		err error
	)
	switch v := value.(type) {
	case json.Number:
		d, err = decimal.NewFromString(v.String())
	case string:
		if strings.TrimSpace(v) == "" {
			return decimal.NullDecimal{}
		}
		d, err = decimal.NewFromString(strings.Replace(strings.TrimSpace(v), ",", ".", 1))
	default:
		var f float64
		f, err = cast.ToFloat64E(v)
		d = decimal.NewFromFloat(f)
	}
	if err != nil {
		log.Warn("unreadable number, leaving unset", zap.Strings("keys", keys), zap.Any("value", value), zap.Error(err))
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// plain unwraps json.Number so cast sees an ordinary Go value.
func plain(value interface{}) interface{} {
	number, ok := value.(json.Number)
	if !ok {
		return value
	}
	if i, err := number.Int64(); err == nil {
		return i
	}
	return number.String()
}
