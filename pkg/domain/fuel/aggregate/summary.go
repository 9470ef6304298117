package aggregate

import (
	"sort"
	"time"

	"github.com/lunemec/fuel-accountant/pkg/domain/fuel/entity"

	"github.com/shopspring/decimal"
)

type Balances struct {
	Base   decimal.Decimal
	Bunker decimal.Decimal
}

// OnHand is the fuel held in both stocks together.
func (b Balances) OnHand() decimal.Decimal {
	return b.Base.Add(b.Bunker)
}

func (b *Balances) Sum(other Balances) {
	b.Base = b.Base.Add(other.Base)
	b.Bunker = b.Bunker.Add(other.Bunker)
}

// Volumes are the raw per-operation sums the balances and valuation derive from.
type Volumes struct {
	Purchased    decimal.Decimal
	Sold         decimal.Decimal
	Drained      decimal.Decimal
	ToBunker     decimal.Decimal
	ToBase       decimal.Decimal
	PurchaseCost decimal.Decimal
	SaleRevenue  decimal.Decimal
}

func (v *Volumes) Sum(other Volumes) {
	v.Purchased = v.Purchased.Add(other.Purchased)
	v.Sold = v.Sold.Add(other.Sold)
	v.Drained = v.Drained.Add(other.Drained)
	v.ToBunker = v.ToBunker.Add(other.ToBunker)
	v.ToBase = v.ToBase.Add(other.ToBase)
	v.PurchaseCost = v.PurchaseCost.Add(other.PurchaseCost)
	v.SaleRevenue = v.SaleRevenue.Add(other.SaleRevenue)
}

type Profit struct {
	Profit           decimal.Decimal
	AvgPurchasePrice decimal.Decimal
}

type GradeSummary struct {
	Balances
	Volumes          Volumes
	AvgPurchasePrice decimal.Decimal
	Profit           decimal.Decimal
	FrozenCapital    decimal.Decimal // Cost value of purchased but unsold fuel.
}

type Summary struct {
	GradeSummary
	PerGrade map[entity.Grade]GradeSummary
	Warnings []string
}

func NewSummary() *Summary {
	return &Summary{
		PerGrade: make(map[entity.Grade]GradeSummary),
	}
}

// Grades returns the grade keys in stable order.
func (s *Summary) Grades() []entity.Grade {
	grades := make([]entity.Grade, 0, len(s.PerGrade))
	for grade := range s.PerGrade {
		grades = append(grades, grade)
	}
	sort.Slice(grades, func(i, j int) bool {
		return grades[i] < grades[j]
	})
	return grades
}

type DailySummary struct {
	Timestamp time.Time
	Summary   *Summary
}

type LowStockNotification struct {
	Threshold decimal.Decimal
	Grade     entity.Grade
	Date      time.Time
	Balances  Balances
}
