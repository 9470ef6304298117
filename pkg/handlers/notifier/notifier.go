package notifier

import (
	"context"
	"time"

	"github.com/lunemec/fuel-accountant/pkg/domain/fuel/aggregate"
	"github.com/lunemec/fuel-accountant/pkg/domain/fuel/entity"
	"github.com/lunemec/fuel-accountant/pkg/services/accountant"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type NotifyFunc func(ctx context.Context, notification aggregate.LowStockNotification)

type notifierHandler struct {
	ctx            context.Context
	log            *zap.Logger
	checkInterval  time.Duration
	notifyInterval time.Duration
	accountantSvc  accountant.Service
	notify         NotifyFunc

	now          func() time.Time
	lastNotified map[entity.Grade]time.Time
}

func New(
	ctx context.Context,
	log *zap.Logger,
	checkInterval, notifyInterval time.Duration,
	accountantSvc accountant.Service,
	notify NotifyFunc,
) *notifierHandler {
	notifier := notifierHandler{
		ctx:            ctx,
		log:            log,
		checkInterval:  checkInterval,
		notifyInterval: notifyInterval,
		accountantSvc:  accountantSvc,
		notify:         notify,
		now:            time.Now,
		lastNotified:   make(map[entity.Grade]time.Time),
	}
	return &notifier
}

func (n *notifierHandler) Start() {
	n.log.Info("Notifier handler started.")
	ticker := time.NewTicker(n.checkInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			err := n.tick()
			if err != nil {
				n.log.Error("notifier error", zap.Error(err))
			}
		case <-n.ctx.Done():
			return
		}
	}
}

// tick is called every ticker interval. Each grade is notified at most once
// per notify interval.
func (n *notifierHandler) tick() error {
	now := n.now()
	notifications, err := n.accountantSvc.LowStockNotifications(n.ctx, now)
	if err != nil {
		return errors.Wrap(err, "error checking stock")
	}

	for _, notification := range notifications {
		last, ok := n.lastNotified[notification.Grade]
		if ok && now.Sub(last) < n.notifyInterval {
			continue
		}
		n.log.Info("stock below threshold", zap.String("grade", string(notification.Grade)))
		n.notify(n.ctx, notification)
		n.lastNotified[notification.Grade] = now
	}
	return nil
}
