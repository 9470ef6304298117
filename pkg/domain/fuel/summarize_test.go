package fuel

import (
	"math/rand"
	"testing"

	"github.com/lunemec/fuel-accountant/pkg/domain/fuel/aggregate"
	"github.com/lunemec/fuel-accountant/pkg/domain/fuel/entity"

	"github.com/pkg/errors"
)

func mixedTransactions() []*aggregate.Transaction {
	return []*aggregate.Transaction{
		tx("d1", entity.KindPurchase, "diesel", "1000", "50.10"),
		tx("d2", entity.KindPurchase, "diesel", "333.3", "49.97"),
		tx("d3", entity.KindBaseToBunker, "diesel", "800", ""),
		tx("d4", entity.KindSale, "diesel", "612.5", "70.3"),
		tx("d5", entity.KindDrain, "diesel", "12.25", ""),
		tx("d6", entity.KindBunkerToBase, "diesel", "40", ""),
		tx("g1", entity.KindPurchase, "gasoline-95", "700", "61.3"),
		tx("g2", entity.KindPurchase, "gasoline-95", "0.7", "61.1"),
		tx("g3", entity.KindBaseToBunker, "gasoline-95", "500", ""),
		tx("g4", entity.KindSale, "gasoline-95", "450.25", "80.05"),
		tx("g5", entity.KindSale, "gasoline-95", "10", "79.99"),
	}
}

func TestSummarizeScenario(t *testing.T) {
	purchase := tx("1", entity.KindPurchase, "diesel", "1000", "50")
	sale := tx("2", entity.KindSale, "diesel", "400", "70")

	summary, err := Summarize([]*aggregate.Transaction{purchase, sale})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	assertDecimal(t, "avg", summary.AvgPurchasePrice, "50")
	assertDecimal(t, "profit", summary.Profit, "8000")
	assertDecimal(t, "base", summary.Base, "1000")
	assertDecimal(t, "bunker", summary.Bunker, "-400")
	assertDecimal(t, "on hand", summary.OnHand(), "600")
	assertDecimal(t, "frozen capital", summary.FrozenCapital, "30000")
	assertGradeSummaryEqual(t, "diesel", summary.PerGrade["diesel"], summary.GradeSummary)
	if len(summary.Warnings) != 0 {
		t.Fatalf("warnings = %q, want none", summary.Warnings)
	}

	t.Run("transfer", func(t *testing.T) {
		transfer := tx("3", entity.KindBaseToBunker, "diesel", "300", "")
		summary, err := Summarize([]*aggregate.Transaction{purchase, sale, transfer})
		if err != nil {
			t.Fatalf("Summarize: %v", err)
		}
		assertDecimal(t, "base", summary.Base, "700")
		assertDecimal(t, "bunker", summary.Bunker, "-100")
		assertDecimal(t, "profit", summary.Profit, "8000")
	})

	t.Run("frozen purchase", func(t *testing.T) {
		frozen := purchase.Copy()
		frozen.Frozen = true
		summary, err := Summarize([]*aggregate.Transaction{frozen, sale})
		if err != nil {
			t.Fatalf("Summarize: %v", err)
		}
		assertDecimal(t, "avg", summary.AvgPurchasePrice, "0")
		assertDecimal(t, "profit", summary.Profit, "28000")
		assertDecimal(t, "base", summary.Base, "0")
		assertDecimal(t, "bunker", summary.Bunker, "-400")
		assertDecimal(t, "frozen capital", summary.FrozenCapital, "0")
		if purchase.Frozen {
			t.Fatalf("caller's transaction was modified")
		}
	})
}

func TestSummarizeConservation(t *testing.T) {
	summary, err := Summarize([]*aggregate.Transaction{
		tx("1", entity.KindPurchase, "diesel", "500", "60"),
		tx("2", entity.KindPurchase, "diesel", "250", "60"),
		tx("3", entity.KindSale, "diesel", "750", "60"),
	})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	assertDecimal(t, "profit", summary.Profit, "0")
	assertDecimal(t, "on hand", summary.OnHand(), "0")
	assertDecimal(t, "frozen capital", summary.FrozenCapital, "0")
}

func TestSummarizeOrderIndependence(t *testing.T) {
	txs := mixedTransactions()
	txs[1].Volume.Valid = false
	txs[7].Grade = ""

	want, err := Summarize(txs)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	rnd := rand.New(rand.NewSource(42))
	for i := 0; i < 50; i++ {
		permuted := make([]*aggregate.Transaction, len(txs))
		copy(permuted, txs)
		rnd.Shuffle(len(permuted), func(i, j int) {
			permuted[i], permuted[j] = permuted[j], permuted[i]
		})

		got, err := Summarize(permuted)
		if err != nil {
			t.Fatalf("Summarize: %v", err)
		}
		assertSummaryEqual(t, got, want)
	}
}

func TestSummarizeFrozenToggle(t *testing.T) {
	txs := mixedTransactions()
	original, err := Summarize(txs)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	for i := range txs {
		var (
			toggled = make([]*aggregate.Transaction, len(txs))
			removed []*aggregate.Transaction
		)
		for j, transaction := range txs {
			toggled[j] = transaction
			if j == i {
				toggled[j] = transaction.Copy()
				toggled[j].Frozen = true
				continue
			}
			removed = append(removed, transaction)
		}

		frozen, err := Summarize(toggled)
		if err != nil {
			t.Fatalf("Summarize: %v", err)
		}
		without, err := Summarize(removed)
		if err != nil {
			t.Fatalf("Summarize: %v", err)
		}
		assertGradeSummaryEqual(t, "frozen vs removed", frozen.GradeSummary, without.GradeSummary)

		toggled[i] = toggled[i].Copy()
		toggled[i].Frozen = false
		restored, err := Summarize(toggled)
		if err != nil {
			t.Fatalf("Summarize: %v", err)
		}
		assertSummaryEqual(t, restored, original)
	}
}

func TestSummarizeIgnoresLedgerEntries(t *testing.T) {
	txs := mixedTransactions()
	want, err := Summarize(txs)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	withLedger := append([]*aggregate.Transaction{
		tx("r1", "repair", "diesel", "1", "1000"),
		tx("s1", "salary", "", "0", "2500"),
	}, txs...)
	withLedger = append(withLedger, tx("e1", "expense", "lubricant", "3", "10"))

	got, err := Summarize(withLedger)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	assertSummaryEqual(t, got, want)
}

func TestSummarizeGradesSumToTotal(t *testing.T) {
	summary, err := Summarize(mixedTransactions())
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if len(summary.PerGrade) != 2 {
		t.Fatalf("len(PerGrade) = %d, want 2", len(summary.PerGrade))
	}

	var sum aggregate.GradeSummary
	for _, grade := range summary.Grades() {
		gradeSummary := summary.PerGrade[grade]
		sum.Balances.Sum(gradeSummary.Balances)
		sum.Profit = sum.Profit.Add(gradeSummary.Profit)
		sum.FrozenCapital = sum.FrozenCapital.Add(gradeSummary.FrozenCapital)
	}
	if !sum.Profit.Equal(summary.Profit) {
		t.Fatalf("sum of grade profit = %s, total = %s", sum.Profit, summary.Profit)
	}
	if !sum.FrozenCapital.Equal(summary.FrozenCapital) {
		t.Fatalf("sum of grade frozen capital = %s, total = %s", sum.FrozenCapital, summary.FrozenCapital)
	}
	if !sum.Base.Equal(summary.Base) || !sum.Bunker.Equal(summary.Bunker) {
		t.Fatalf("sum of grade balances = %s/%s, total = %s/%s", sum.Base, sum.Bunker, summary.Base, summary.Bunker)
	}

	// Balances are linear, folding everything at once gives the same numbers.
	all := ComputeBalances(mixedTransactions())
	if !all.Base.Equal(summary.Base) || !all.Bunker.Equal(summary.Bunker) {
		t.Fatalf("ComputeBalances = %s/%s, total = %s/%s", all.Base, all.Bunker, summary.Base, summary.Bunker)
	}
}

func TestSummarizeWarnings(t *testing.T) {
	missingVolume := tx("a", entity.KindPurchase, "diesel", "0", "50")
	missingVolume.Volume.Valid = false
	inconsistent := tx("b", entity.KindSale, "diesel", "10", "70")
	inconsistent.TotalCost = num("800")
	noGrade := tx("c", entity.KindDrain, "", "5", "")
	noKind := tx("d", "", "diesel", "5", "")
	frozenBroken := tx("e", entity.KindSale, "diesel", "-1", "")
	frozenBroken.Frozen = true
	undated := tx("f", entity.KindDrain, "diesel", "5", "")
	undated.Undated = true

	summary, err := Summarize([]*aggregate.Transaction{noKind, undated, noGrade, inconsistent, missingVolume, frozenBroken})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	want := []string{
		"transaction a: volume missing, treated as 0",
		"transaction b: total cost 800 does not match volume * unit price 700, recomputed",
		"transaction c: grade missing",
		"transaction d: kind missing, ignored",
		"transaction f: date missing, booked at 1970-01-01",
	}
	if len(summary.Warnings) != len(want) {
		t.Fatalf("warnings = %q, want %q", summary.Warnings, want)
	}
	for i := range want {
		if summary.Warnings[i] != want[i] {
			t.Fatalf("warnings[%d] = %q, want %q", i, summary.Warnings[i], want[i])
		}
	}
	assertDecimal(t, "profit", summary.Profit, "700")
	if _, ok := summary.PerGrade[""]; !ok {
		t.Fatalf("ungraded transactions missing from PerGrade")
	}
}

func TestSummarizeNilEntry(t *testing.T) {
	summary, err := Summarize([]*aggregate.Transaction{
		tx("1", entity.KindPurchase, "diesel", "1", "1"),
		nil,
	})
	if summary != nil {
		t.Fatalf("summary = %+v, want nil", summary)
	}
	var invalid *InvalidInputError
	if !errors.As(err, &invalid) {
		t.Fatalf("err = %v, want InvalidInputError", err)
	}
	if invalid.Index != 1 {
		t.Fatalf("Index = %d, want 1", invalid.Index)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	summary, err := Summarize(nil)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	assertDecimal(t, "base", summary.Base, "0")
	assertDecimal(t, "bunker", summary.Bunker, "0")
	assertDecimal(t, "profit", summary.Profit, "0")
	if len(summary.PerGrade) != 0 || len(summary.Warnings) != 0 {
		t.Fatalf("summary = %+v, want empty", summary)
	}
}
