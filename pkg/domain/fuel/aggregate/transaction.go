package aggregate

import (
	"time"

	"github.com/lunemec/fuel-accountant/pkg/domain/fuel/entity"

	"github.com/shopspring/decimal"
)

// Transaction is a single fuel movement. Numeric fields are nullable so that
// records with missing values can be told apart from records holding zero.
type Transaction struct {
	ID        entity.TransactionID `storm:"id"`
	Kind      entity.Kind          `storm:"index"`
	Volume    decimal.NullDecimal  /* Liters, never negative. */
	UnitPrice decimal.NullDecimal  /* Price per liter, only meaningful for purchases and sales. */
	TotalCost decimal.NullDecimal  /* Nominally Volume * UnitPrice. */
	Grade     entity.Grade         `storm:"index"`
	Frozen    bool                 /* Set aside, excluded from every balance and profit figure. */
	Date      time.Time            `storm:"index"`
	Undated   bool                 /* Date was missing or unreadable, Date holds UndatedDate. */
	UserID    entity.UserID
	VesselRef entity.VesselRef
}

// UndatedDate is the date records without one are booked at. It is the
// earliest date any summary range starts from, so they stay in stock totals.
var UndatedDate = time.Unix(0, 0).UTC()

// Copy returns a shallow copy, enough to toggle flags without touching the caller's record.
func (t Transaction) Copy() *Transaction {
	return &t
}
