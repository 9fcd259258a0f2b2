package orders

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/AliCapone21/nonkabob-guliston/pkg/db/models"
	"github.com/AliCapone21/nonkabob-guliston/pkg/enums"
	"github.com/AliCapone21/nonkabob-guliston/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Omit("Items").Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) FindByID(ctx context.Context, orderID int64) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByTelegramUser returns one cursor page of a customer's orders,
// newest first, items preloaded.
func (r *repository) ListByTelegramUser(ctx context.Context, telegramUserID int64, params pagination.Params) (*OrderPageDTO, error) {
	normalizedLimit := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)

	decodedCursor, err := pagination.ParseCursor(strings.TrimSpace(params.Cursor))
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).
		Preload("Items").
		Where("telegram_user_id = ?", telegramUserID)

	if decodedCursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID,
		)
	}

	var records []models.Order
	err = query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limitWithBuffer).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	nextCursor := ""
	if len(records) > normalizedLimit {
		records = records[:normalizedLimit]
		last := records[len(records)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}

	return &OrderPageDTO{
		Orders:     fromModels(records),
		NextCursor: nextCursor,
	}, nil
}

// ListAll returns every order with items, newest first. The dashboard
// refetches this wholesale on every change event.
func (r *repository) ListAll(ctx context.Context) ([]models.Order, error) {
	var records []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC").
		Order("id DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) UpdateStatus(ctx context.Context, orderID int64, status enums.OrderStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		UpdateColumn("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ClearAll wipes both tables. On postgres the identity sequences restart
// so the dashboard numbering begins at 1 again; elsewhere (sqlite in
// tests) plain deletes are the portable fallback.
func (r *repository) ClearAll(ctx context.Context) error {
	db := r.db.WithContext(ctx)

	if db.Dialector.Name() == "postgres" {
		return db.Exec("TRUNCATE TABLE order_items, orders RESTART IDENTITY").Error
	}

	if err := db.Exec("DELETE FROM order_items").Error; err != nil {
		return err
	}
	return db.Exec("DELETE FROM orders").Error
}
