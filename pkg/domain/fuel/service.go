package fuel

import (
	"context"
	"time"

	"github.com/lunemec/fuel-accountant/pkg/domain/fuel/aggregate"

	"github.com/pkg/errors"
)

type Service interface {
	Summary(ctx context.Context, from, to time.Time) (*aggregate.Summary, error)
	SummaryByDay(ctx context.Context, from, to time.Time) ([]aggregate.DailySummary, error)
}

type fuelService struct {
	repositories []Repository
}

func NewService(repositories ...Repository) *fuelService {
	return &fuelService{
		repositories: repositories,
	}
}

func (s *fuelService) Summary(ctx context.Context, from, to time.Time) (*aggregate.Summary, error) {
	transactions, err := s.transactions(ctx, from, to)
	if err != nil {
		return nil, err
	}
	summary, err := Summarize(transactions)
	if err != nil {
		return nil, errors.Wrap(err, "error summarizing transactions")
	}
	return summary, nil
}

// SummaryByDay summarizes each day of the range on its own, days without
// transactions included.
func (s *fuelService) SummaryByDay(ctx context.Context, from, to time.Time) ([]aggregate.DailySummary, error) {
	transactions, err := s.transactions(ctx, from, to)
	if err != nil {
		return nil, err
	}

	byDay := make(map[time.Time][]*aggregate.Transaction)
	for _, transaction := range transactions {
		day := truncateToDay(transaction.Date)
		byDay[day] = append(byDay[day], transaction)
	}

	var days []aggregate.DailySummary
	for day := truncateToDay(from); !day.After(to); day = day.AddDate(0, 0, 1) {
		summary, err := Summarize(byDay[day])
		if err != nil {
			return nil, errors.Wrapf(err, "error summarizing transactions for %s", day.Format("2006-01-02"))
		}
		days = append(days, aggregate.DailySummary{
			Timestamp: day,
			Summary:   summary,
		})
	}
	return days, nil
}

func (s *fuelService) transactions(ctx context.Context, from, to time.Time) ([]*aggregate.Transaction, error) {
	var out []*aggregate.Transaction

	for _, repository := range s.repositories {
		transactions, err := repository.Transactions(ctx, from, to)
		if err != nil {
			return nil, errors.Wrapf(err, "error loading transactions from: %s", repository.Name())
		}
		for i := range transactions {
			out = append(out, &transactions[i])
		}
	}
	return out, nil
}

func truncateToDay(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
