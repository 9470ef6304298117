package accountant

import (
	"context"
	"time"

	"github.com/lunemec/fuel-accountant/pkg/domain/fuel"
	"github.com/lunemec/fuel-accountant/pkg/domain/fuel/aggregate"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type Service interface {
	Summary(ctx context.Context, from, to time.Time) (*aggregate.Summary, error)
	SummaryByDay(ctx context.Context, from, to time.Time) ([]aggregate.DailySummary, error)
	LowStockNotifications(ctx context.Context, now time.Time) ([]aggregate.LowStockNotification, error)
}

type accountantService struct {
	fuelSvc   fuel.Service
	threshold decimal.Decimal
}

func New(fuelSvc fuel.Service, threshold decimal.Decimal) *accountantService {
	return &accountantService{
		fuelSvc:   fuelSvc,
		threshold: threshold,
	}
}

func (s *accountantService) Summary(ctx context.Context, from, to time.Time) (*aggregate.Summary, error) {
	return s.fuelSvc.Summary(ctx, from, to)
}

func (s *accountantService) SummaryByDay(ctx context.Context, from, to time.Time) ([]aggregate.DailySummary, error) {
	return s.fuelSvc.SummaryByDay(ctx, from, to)
}

// LowStockNotifications lists grades whose fuel on hand (base + bunker) is
// under the threshold. Stock is a running total, so the whole history up to
// now is summarized.
func (s *accountantService) LowStockNotifications(ctx context.Context, now time.Time) ([]aggregate.LowStockNotification, error) {
	summary, err := s.fuelSvc.Summary(ctx, time.Unix(0, 0), now)
	if err != nil {
		return nil, errors.Wrap(err, "error calculating stock")
	}

	var notifications []aggregate.LowStockNotification
	for _, grade := range summary.Grades() {
		balances := summary.PerGrade[grade].Balances
		if balances.OnHand().GreaterThanOrEqual(s.threshold) {
			continue
		}
		notifications = append(notifications, aggregate.LowStockNotification{
			Threshold: s.threshold,
			Grade:     grade,
			Date:      now,
			Balances:  balances,
		})
	}
	return notifications, nil
}
