package fuel

import (
	"fmt"
	"sort"

	"github.com/lunemec/fuel-accountant/pkg/domain/fuel/aggregate"
	"github.com/lunemec/fuel-accountant/pkg/domain/fuel/entity"
)

type InvalidInputError struct {
	Index int
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: transaction at index %d is nil", e.Index)
}

// Summarize is the single entry point for balances, profit and frozen
// capital. Every grade is valued on its own, top level figures are the sum
// of the grades, except AvgPurchasePrice which is averaged over all purchases.
// The input is never modified.
func Summarize(transactions []*aggregate.Transaction) (*aggregate.Summary, error) {
	var (
		byGrade  = make(map[entity.Grade][]*aggregate.Transaction)
		warnings []string
	)
	for i, transaction := range transactions {
		if transaction == nil {
			return nil, &InvalidInputError{Index: i}
		}
		if Classify(transaction) == entity.Unrecognized {
			// Ledger-only entries are not an inventory concern, a missing tag is.
			if transaction.Kind.Normalize() == "" && !transaction.Frozen {
				warnings = append(warnings, fmt.Sprintf("transaction %s: kind missing, ignored", transaction.ID))
			}
			continue
		}
		byGrade[transaction.Grade] = append(byGrade[transaction.Grade], transaction)
	}

	summary := aggregate.NewSummary()
	summary.Warnings = warnings
	for grade, gradeTransactions := range byGrade {
		m, gradeWarnings := movements(gradeTransactions)
		gradeSummary := summarizeVolumes(accumulate(m))

		summary.PerGrade[grade] = gradeSummary
		summary.Balances.Sum(gradeSummary.Balances)
		summary.Volumes.Sum(gradeSummary.Volumes)
		summary.Profit = summary.Profit.Add(gradeSummary.Profit)
		summary.FrozenCapital = summary.FrozenCapital.Add(gradeSummary.FrozenCapital)
		summary.Warnings = append(summary.Warnings, gradeWarnings...)
	}
	summary.AvgPurchasePrice = averagePurchasePrice(summary.Volumes)
	sort.Strings(summary.Warnings)

	return summary, nil
}

func summarizeVolumes(v aggregate.Volumes) aggregate.GradeSummary {
	profit := realizedProfit(v)
	return aggregate.GradeSummary{
		Balances:         balances(v),
		Volumes:          v,
		AvgPurchasePrice: profit.AvgPurchasePrice,
		Profit:           profit.Profit,
		FrozenCapital:    frozenCapital(v),
	}
}
