package orders

import (
	"context"

	"github.com/AliCapone21/nonkabob-guliston/internal/cart"
	"github.com/AliCapone21/nonkabob-guliston/pkg/db/models"
	"github.com/AliCapone21/nonkabob-guliston/pkg/enums"
	"github.com/AliCapone21/nonkabob-guliston/pkg/pagination"
)

// Repository defines persistence operations for the order tables.
type Repository interface {
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateOrderItems(ctx context.Context, items []models.OrderItem) error
	FindByID(ctx context.Context, orderID int64) (*models.Order, error)
	ListByTelegramUser(ctx context.Context, telegramUserID int64, params pagination.Params) (*OrderPageDTO, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, status enums.OrderStatus) error
	ClearAll(ctx context.Context) error
}

// CartSession is the slice of the cart store the workflow needs.
// *cart.Store satisfies it.
type CartSession interface {
	Items() []cart.Item
	ClearAll()
}
