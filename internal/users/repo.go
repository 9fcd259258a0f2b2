package users

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/AliCapone21/nonkabob-guliston/pkg/db/models"
)

// Repository exposes profile persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByTelegramID loads a profile by the Telegram user id.
func (r *Repository) FindByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "telegram_id = ?", telegramID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Upsert writes the profile keyed by telegram_id, updating the editable
// columns on conflict.
func (r *Repository) Upsert(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "telegram_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"full_name", "phone_number", "address_text", "latitude", "longitude", "updated_at",
			}),
		}).
		Create(user).Error
}
