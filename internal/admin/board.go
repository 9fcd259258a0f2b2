package admin

import (
	"context"
	"sync"

	"github.com/AliCapone21/nonkabob-guliston/internal/orders"
	"github.com/AliCapone21/nonkabob-guliston/internal/realtime"
	"github.com/AliCapone21/nonkabob-guliston/pkg/enums"
	pkgerrors "github.com/AliCapone21/nonkabob-guliston/pkg/errors"
	"github.com/AliCapone21/nonkabob-guliston/pkg/logger"
	"github.com/AliCapone21/nonkabob-guliston/pkg/metrics"
)

// BoardParams groups dependencies for the dashboard board.
type BoardParams struct {
	Repo  orders.Repository
	Feed  realtime.Feed
	Logg  *logger.Logger
	Stats *metrics.OrderMetrics
}

// Board holds the dashboard's server-side order list. Change events
// trigger a full refetch; status moves apply optimistically and roll
// back when the write fails. Last writer wins between optimistic
// applies and concurrent refreshes.
type Board struct {
	mu     sync.Mutex
	orders []orders.OrderDTO

	repo  orders.Repository
	feed  realtime.Feed
	logg  *logger.Logger
	stats *metrics.OrderMetrics
}

// NewBoard builds an empty board.
func NewBoard(params BoardParams) (*Board, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orders repo is required")
	}
	if params.Feed == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "realtime feed is required")
	}
	return &Board{
		repo:  params.Repo,
		feed:  params.Feed,
		logg:  params.Logg,
		stats: params.Stats,
	}, nil
}

// Refresh replaces the whole list from the store. Two refreshes with no
// intervening change yield the same list.
func (b *Board) Refresh(ctx context.Context) error {
	records, err := b.repo.ListAll(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "refetch orders")
	}

	fresh := make([]orders.OrderDTO, 0, len(records))
	for i := range records {
		fresh = append(fresh, orders.FromModel(&records[i]))
	}

	b.mu.Lock()
	b.orders = fresh
	b.mu.Unlock()
	return nil
}

// Orders returns a snapshot of the board list.
func (b *Board) Orders() []orders.OrderDTO {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]orders.OrderDTO, len(b.orders))
	copy(out, b.orders)
	return out
}

// Transition moves one order to the next status: validate, apply to the
// board optimistically, write, and roll the board entry back when the
// write fails.
func (b *Board) Transition(ctx context.Context, orderID int64, next enums.OrderStatus) error {
	if !next.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}

	snapshot, ok := b.statusOf(orderID)
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not on the board")
	}
	if !snapshot.CanTransitionTo(next) {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "status transition not allowed")
	}

	b.applyStatus(orderID, next)

	if err := b.repo.UpdateStatus(ctx, orderID, next); err != nil {
		b.applyStatus(orderID, snapshot)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}

	b.stats.IncTransition(snapshot, next)
	if err := b.feed.Publish(ctx, realtime.Event{Table: "orders", Action: "UPDATE", OrderID: orderID}); err != nil {
		if b.logg != nil {
			b.logg.Warn(b.logg.WithField(ctx, "order_id", orderID), "realtime publish failed")
		}
	} else {
		b.stats.IncPublished()
	}
	return nil
}

// AllowedActions reports which statuses the UI may offer next.
// Terminal statuses get an empty list.
func (b *Board) AllowedActions(status enums.OrderStatus) []enums.OrderStatus {
	return status.AllowedTransitions()
}

// Watch refreshes the board on every feed event until the context is
// cancelled.
func (b *Board) Watch(ctx context.Context) error {
	events, err := b.feed.Subscribe(ctx)
	if err != nil {
		return err
	}

	go func() {
		for range events {
			if err := b.Refresh(ctx); err != nil && b.logg != nil {
				b.logg.Error(ctx, "board refresh failed", err)
			}
		}
	}()
	return nil
}

func (b *Board) statusOf(orderID int64) (enums.OrderStatus, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.orders {
		if b.orders[i].ID == orderID {
			return b.orders[i].Status, true
		}
	}
	return "", false
}

func (b *Board) applyStatus(orderID int64, status enums.OrderStatus) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.orders {
		if b.orders[i].ID == orderID {
			b.orders[i].Status = status
			return
		}
	}
}
