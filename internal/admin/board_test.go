package admin

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AliCapone21/nonkabob-guliston/internal/orders"
	"github.com/AliCapone21/nonkabob-guliston/internal/realtime"
	"github.com/AliCapone21/nonkabob-guliston/pkg/db/models"
	"github.com/AliCapone21/nonkabob-guliston/pkg/enums"
	pkgerrors "github.com/AliCapone21/nonkabob-guliston/pkg/errors"
	"github.com/AliCapone21/nonkabob-guliston/pkg/pagination"
)

// fakeRepo is an in-memory orders.Repository with a switchable
// UpdateStatus failure.
type fakeRepo struct {
	mu         sync.Mutex
	orders     []models.Order
	failUpdate bool
	listCalls  int
}

func (f *fakeRepo) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order.ID = int64(len(f.orders) + 1)
	f.orders = append(f.orders, *order)
	return order, nil
}

func (f *fakeRepo) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	return nil
}

func (f *fakeRepo) FindByID(ctx context.Context, orderID int64) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.orders {
		if f.orders[i].ID == orderID {
			order := f.orders[i]
			return &order, nil
		}
	}
	return nil, fmt.Errorf("not found")
}

func (f *fakeRepo) ListByTelegramUser(ctx context.Context, telegramUserID int64, params pagination.Params) (*orders.OrderPageDTO, error) {
	return &orders.OrderPageDTO{}, nil
}

func (f *fakeRepo) ListAll(ctx context.Context) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	out := make([]models.Order, len(f.orders))
	copy(out, f.orders)
	return out, nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, orderID int64, status enums.OrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdate {
		return fmt.Errorf("write failed")
	}
	for i := range f.orders {
		if f.orders[i].ID == orderID {
			f.orders[i].Status = status
			return nil
		}
	}
	return fmt.Errorf("not found")
}

func (f *fakeRepo) ClearAll(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders = nil
	return nil
}

func newBoardFixture(t *testing.T, statuses ...enums.OrderStatus) (*Board, *fakeRepo, *realtime.MemoryFeed) {
	t.Helper()

	repo := &fakeRepo{}
	for i, status := range statuses {
		repo.orders = append(repo.orders, models.Order{ID: int64(i + 1), Status: status, TotalPrice: 1000})
	}

	feed := realtime.NewMemoryFeed()
	board, err := NewBoard(BoardParams{Repo: repo, Feed: feed})
	require.NoError(t, err)
	require.NoError(t, board.Refresh(context.Background()))
	return board, repo, feed
}

func TestRefreshIsIdempotent(t *testing.T) {
	board, _, _ := newBoardFixture(t, enums.OrderStatusPending, enums.OrderStatusCooking)

	first := board.Orders()
	require.NoError(t, board.Refresh(context.Background()))
	second := board.Orders()

	assert.Equal(t, first, second)
}

func TestTransitionAppliesOptimistically(t *testing.T) {
	board, repo, feed := newBoardFixture(t, enums.OrderStatusPending)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, err := feed.Subscribe(ctx)
	require.NoError(t, err)

	require.NoError(t, board.Transition(ctx, 1, enums.OrderStatusCooking))

	assert.Equal(t, enums.OrderStatusCooking, board.Orders()[0].Status)

	stored, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCooking, stored.Status)

	select {
	case event := <-events:
		assert.Equal(t, "UPDATE", event.Action)
		assert.Equal(t, int64(1), event.OrderID)
	case <-time.After(time.Second):
		t.Fatal("no realtime event published")
	}
}

func TestTransitionRollsBackOnWriteFailure(t *testing.T) {
	board, repo, _ := newBoardFixture(t, enums.OrderStatusPending)
	repo.failUpdate = true

	err := board.Transition(context.Background(), 1, enums.OrderStatusCooking)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeDependency, appErr.Code())

	// the optimistic apply was reverted
	assert.Equal(t, enums.OrderStatusPending, board.Orders()[0].Status)
}

func TestTransitionRejectsIllegalMoves(t *testing.T) {
	board, _, _ := newBoardFixture(t, enums.OrderStatusPending, enums.OrderStatusDelivered)

	// pending cannot jump straight to delivered
	err := board.Transition(context.Background(), 1, enums.OrderStatusDelivered)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())

	// terminal orders accept nothing
	err = board.Transition(context.Background(), 2, enums.OrderStatusCooking)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())

	// board stays untouched
	assert.Equal(t, enums.OrderStatusPending, board.Orders()[0].Status)
	assert.Equal(t, enums.OrderStatusDelivered, board.Orders()[1].Status)
}

func TestTransitionUnknownOrder(t *testing.T) {
	board, _, _ := newBoardFixture(t, enums.OrderStatusPending)

	err := board.Transition(context.Background(), 99, enums.OrderStatusCooking)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestTransitionUnknownStatus(t *testing.T) {
	board, _, _ := newBoardFixture(t, enums.OrderStatusPending)

	err := board.Transition(context.Background(), 1, enums.OrderStatus("frozen"))
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestAllowedActions(t *testing.T) {
	board, _, _ := newBoardFixture(t)

	assert.Equal(t, []enums.OrderStatus{enums.OrderStatusCooking}, board.AllowedActions(enums.OrderStatusPending))
	assert.ElementsMatch(t,
		[]enums.OrderStatus{enums.OrderStatusDelivered, enums.OrderStatusCancelled},
		board.AllowedActions(enums.OrderStatusCooking))
	assert.Empty(t, board.AllowedActions(enums.OrderStatusDelivered))
	assert.Empty(t, board.AllowedActions(enums.OrderStatusCancelled))
}

func TestWatchRefreshesOnFeedEvents(t *testing.T) {
	board, repo, feed := newBoardFixture(t, enums.OrderStatusPending)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, board.Watch(ctx))

	// a new order appears in the store, then a change event fires
	_, err := repo.CreateOrder(ctx, &models.Order{Status: enums.OrderStatusPending, TotalPrice: 500})
	require.NoError(t, err)
	require.NoError(t, feed.Publish(ctx, realtime.Event{Table: "orders", Action: "INSERT", OrderID: 2}))

	require.Eventually(t, func() bool {
		return len(board.Orders()) == 2
	}, time.Second, 10*time.Millisecond)
}

func TestRepeatedEventsRepeatRefetchWithoutCorruption(t *testing.T) {
	board, repo, feed := newBoardFixture(t, enums.OrderStatusPending, enums.OrderStatusCooking)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, board.Watch(ctx))

	event := realtime.Event{Table: "orders", Action: "UPDATE", OrderID: 1}
	for i := 0; i < 5; i++ {
		require.NoError(t, feed.Publish(ctx, event))
	}

	require.Eventually(t, func() bool {
		repo.mu.Lock()
		defer repo.mu.Unlock()
		return repo.listCalls >= 6 // initial refresh + five event-driven ones
	}, time.Second, 10*time.Millisecond)

	list := board.Orders()
	require.Len(t, list, 2)
	assert.Equal(t, enums.OrderStatusPending, list[0].Status)
	assert.Equal(t, enums.OrderStatusCooking, list[1].Status)
}
