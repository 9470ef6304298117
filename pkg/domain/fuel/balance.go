package fuel

import (
	"fmt"

	"github.com/lunemec/fuel-accountant/pkg/domain/fuel/aggregate"
	"github.com/lunemec/fuel-accountant/pkg/domain/fuel/entity"

	"github.com/shopspring/decimal"
)

// TotalCostTolerance is how far a recorded total cost may drift from
// volume * unit price before it is recomputed.
var TotalCostTolerance = decimal.New(1, -2)

// movement is a transaction reduced to what the balance math needs.
type movement struct {
	operation entity.Operation
	volume    decimal.Decimal
	cost      decimal.Decimal
}

// movements drops frozen and unrecognized transactions and resolves the
// numeric fields of the rest. Problems are reported as warnings, the
// offending value contributes zero.
func movements(transactions []*aggregate.Transaction) ([]movement, []string) {
	var (
		out      = make([]movement, 0, len(transactions))
		warnings []string
	)
	for _, transaction := range transactions {
		if !counts(transaction) {
			continue
		}
		m, txWarnings := resolve(transaction)
		warnings = append(warnings, txWarnings...)
		out = append(out, m)
	}
	return out, warnings
}

func resolve(transaction *aggregate.Transaction) (movement, []string) {
	var (
		m        = movement{operation: Classify(transaction)}
		warnings []string
		warn     = func(format string, args ...interface{}) {
			warnings = append(warnings, fmt.Sprintf("transaction %s: ", transaction.ID)+fmt.Sprintf(format, args...))
		}
	)

	if transaction.Grade == "" {
		warn("grade missing")
	}
	if transaction.Undated {
		warn("date missing, booked at %s", aggregate.UndatedDate.Format("2006-01-02"))
	}
	switch {
	case !transaction.Volume.Valid:
		warn("volume missing, treated as 0")
		return m, warnings
	case transaction.Volume.Decimal.IsNegative():
		warn("volume %s is negative, treated as 0", transaction.Volume.Decimal)
		return m, warnings
	}
	m.volume = transaction.Volume.Decimal

	if m.operation != entity.Purchase && m.operation != entity.Sale {
		return m, warnings
	}

	unitPrice := transaction.UnitPrice
	if unitPrice.Valid && unitPrice.Decimal.IsNegative() {
		warn("unit price %s is negative, ignored", unitPrice.Decimal)
		unitPrice.Valid = false
	}
	totalCost := transaction.TotalCost
	if totalCost.Valid && totalCost.Decimal.IsNegative() {
		warn("total cost %s is negative, ignored", totalCost.Decimal)
		totalCost.Valid = false
	}

	switch {
	case unitPrice.Valid && totalCost.Valid:
		expected := m.volume.Mul(unitPrice.Decimal)
		if totalCost.Decimal.Sub(expected).Abs().GreaterThan(TotalCostTolerance) {
			warn("total cost %s does not match volume * unit price %s, recomputed", totalCost.Decimal, expected)
			m.cost = expected
		} else {
			m.cost = totalCost.Decimal
		}
	case totalCost.Valid:
		m.cost = totalCost.Decimal
	case unitPrice.Valid:
		m.cost = m.volume.Mul(unitPrice.Decimal)
	default:
		warn("unit price and total cost missing, treated as 0")
	}
	return m, warnings
}

func accumulate(movements []movement) aggregate.Volumes {
	var v aggregate.Volumes
	for _, m := range movements {
		switch m.operation {
		case entity.Purchase:
			v.Purchased = v.Purchased.Add(m.volume)
			v.PurchaseCost = v.PurchaseCost.Add(m.cost)
		case entity.Sale:
			v.Sold = v.Sold.Add(m.volume)
			v.SaleRevenue = v.SaleRevenue.Add(m.cost)
		case entity.Drain:
			v.Drained = v.Drained.Add(m.volume)
		case entity.BaseToBunker:
			v.ToBunker = v.ToBunker.Add(m.volume)
		case entity.BunkerToBase:
			v.ToBase = v.ToBase.Add(m.volume)
		}
	}
	return v
}

// balances is the one place the base/bunker formula lives. Drains are
// taken from both stocks.
func balances(v aggregate.Volumes) aggregate.Balances {
	return aggregate.Balances{
		Base:   v.Purchased.Sub(v.Drained).Sub(v.ToBunker).Add(v.ToBase),
		Bunker: v.ToBunker.Sub(v.ToBase).Sub(v.Sold).Sub(v.Drained),
	}
}

// ComputeBalances folds transactions of a single grade into base and bunker
// volumes. Balances are not clamped, negative values mean over-selling or
// bad data.
func ComputeBalances(transactions []*aggregate.Transaction) aggregate.Balances {
	m, _ := movements(transactions)
	return balances(accumulate(m))
}
