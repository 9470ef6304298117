package fuel

import (
	"testing"
	"time"

	"github.com/lunemec/fuel-accountant/pkg/domain/fuel/aggregate"
	"github.com/lunemec/fuel-accountant/pkg/domain/fuel/entity"

	"github.com/shopspring/decimal"
)

var day = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func num(value string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(value), Valid: true}
}

// tx builds a transaction, empty price leaves UnitPrice unset.
func tx(id string, kind entity.Kind, grade entity.Grade, volume, price string) *aggregate.Transaction {
	transaction := &aggregate.Transaction{
		ID:     entity.TransactionID(id),
		Kind:   kind,
		Volume: num(volume),
		Grade:  grade,
		Date:   day,
	}
	if price != "" {
		transaction.UnitPrice = num(price)
	}
	return transaction
}

func assertDecimal(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Fatalf("%s = %s, want %s", name, got, want)
	}
}

func assertGradeSummaryEqual(t *testing.T, name string, got, want aggregate.GradeSummary) {
	t.Helper()
	pairs := []struct {
		field     string
		got, want decimal.Decimal
	}{
		{"Base", got.Base, want.Base},
		{"Bunker", got.Bunker, want.Bunker},
		{"AvgPurchasePrice", got.AvgPurchasePrice, want.AvgPurchasePrice},
		{"Profit", got.Profit, want.Profit},
		{"FrozenCapital", got.FrozenCapital, want.FrozenCapital},
		{"Volumes.Purchased", got.Volumes.Purchased, want.Volumes.Purchased},
		{"Volumes.Sold", got.Volumes.Sold, want.Volumes.Sold},
		{"Volumes.Drained", got.Volumes.Drained, want.Volumes.Drained},
		{"Volumes.ToBunker", got.Volumes.ToBunker, want.Volumes.ToBunker},
		{"Volumes.ToBase", got.Volumes.ToBase, want.Volumes.ToBase},
		{"Volumes.PurchaseCost", got.Volumes.PurchaseCost, want.Volumes.PurchaseCost},
		{"Volumes.SaleRevenue", got.Volumes.SaleRevenue, want.Volumes.SaleRevenue},
	}
	for _, pair := range pairs {
		if !pair.got.Equal(pair.want) {
			t.Fatalf("%s.%s = %s, want %s", name, pair.field, pair.got, pair.want)
		}
	}
}

func assertSummaryEqual(t *testing.T, got, want *aggregate.Summary) {
	t.Helper()
	assertGradeSummaryEqual(t, "total", got.GradeSummary, want.GradeSummary)
	if len(got.PerGrade) != len(want.PerGrade) {
		t.Fatalf("len(PerGrade) = %d, want %d", len(got.PerGrade), len(want.PerGrade))
	}
	for grade, wantGrade := range want.PerGrade {
		gotGrade, ok := got.PerGrade[grade]
		if !ok {
			t.Fatalf("grade %q missing", grade)
		}
		assertGradeSummaryEqual(t, string(grade), gotGrade, wantGrade)
	}
	if len(got.Warnings) != len(want.Warnings) {
		t.Fatalf("warnings = %q, want %q", got.Warnings, want.Warnings)
	}
	for i := range want.Warnings {
		if got.Warnings[i] != want.Warnings[i] {
			t.Fatalf("warnings[%d] = %q, want %q", i, got.Warnings[i], want.Warnings[i])
		}
	}
}
