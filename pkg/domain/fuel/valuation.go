package fuel

import (
	"github.com/lunemec/fuel-accountant/pkg/domain/fuel/aggregate"

	"github.com/shopspring/decimal"
)

// Weighted-average cost: every liter purchased carries the same cost basis.
func averagePurchasePrice(v aggregate.Volumes) decimal.Decimal {
	if !v.Purchased.IsPositive() {
		return decimal.Zero
	}
	return v.PurchaseCost.Div(v.Purchased)
}

func realizedProfit(v aggregate.Volumes) aggregate.Profit {
	avg := averagePurchasePrice(v)
	return aggregate.Profit{
		Profit:           v.SaleRevenue.Sub(v.Sold.Mul(avg)),
		AvgPurchasePrice: avg,
	}
}

func frozenCapital(v aggregate.Volumes) decimal.Decimal {
	held := v.Purchased.Sub(v.Sold)
	if !held.IsPositive() {
		return decimal.Zero
	}
	return held.Mul(averagePurchasePrice(v))
}

// ComputeAveragePurchasePrice returns 0 when nothing was purchased yet.
func ComputeAveragePurchasePrice(transactions []*aggregate.Transaction) decimal.Decimal {
	m, _ := movements(transactions)
	return averagePurchasePrice(accumulate(m))
}

func ComputeRealizedProfit(transactions []*aggregate.Transaction) aggregate.Profit {
	m, _ := movements(transactions)
	return realizedProfit(accumulate(m))
}

// ComputeFrozenCapital values purchased but unsold fuel at the average
// purchase price. Unrelated to the Frozen flag on transactions.
func ComputeFrozenCapital(transactions []*aggregate.Transaction) decimal.Decimal {
	m, _ := movements(transactions)
	return frozenCapital(accumulate(m))
}
