package accountant

import (
	"context"
	"testing"
	"time"

	"github.com/lunemec/fuel-accountant/pkg/domain/fuel/aggregate"
	"github.com/lunemec/fuel-accountant/pkg/domain/fuel/entity"

	"github.com/shopspring/decimal"
)

type mockFuelService struct {
	summary  *aggregate.Summary
	from, to time.Time
}

func (m *mockFuelService) Summary(ctx context.Context, from, to time.Time) (*aggregate.Summary, error) {
	m.from, m.to = from, to
	return m.summary, nil
}

func (m *mockFuelService) SummaryByDay(ctx context.Context, from, to time.Time) ([]aggregate.DailySummary, error) {
	return nil, nil
}

func gradeSummary(base, bunker int64) aggregate.GradeSummary {
	return aggregate.GradeSummary{
		Balances: aggregate.Balances{
			Base:   decimal.NewFromInt(base),
			Bunker: decimal.NewFromInt(bunker),
		},
	}
}

func TestLowStockNotifications(t *testing.T) {
	summary := aggregate.NewSummary()
	summary.PerGrade["diesel"] = gradeSummary(3000, 1000)
	summary.PerGrade["gasoline-95"] = gradeSummary(6000, -500)
	summary.PerGrade["gasoline-98"] = gradeSummary(5000, 0)

	fuelSvc := &mockFuelService{summary: summary}
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	notifications, err := New(fuelSvc, decimal.NewFromInt(5000)).LowStockNotifications(context.Background(), now)
	if err != nil {
		t.Fatalf("LowStockNotifications: %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("notifications = %+v, want only diesel", notifications)
	}
	notification := notifications[0]
	if notification.Grade != entity.Grade("diesel") {
		t.Fatalf("Grade = %q, want diesel", notification.Grade)
	}
	if !notification.Balances.OnHand().Equal(decimal.NewFromInt(4000)) {
		t.Fatalf("OnHand = %s, want 4000", notification.Balances.OnHand())
	}
	if !notification.Date.Equal(now) {
		t.Fatalf("Date = %s, want %s", notification.Date, now)
	}
	if !fuelSvc.to.Equal(now) || fuelSvc.from.After(time.Unix(0, 0)) {
		t.Fatalf("summary range = %s - %s, want whole history up to now", fuelSvc.from, fuelSvc.to)
	}
}
