package models

import (
	"time"

	"github.com/AliCapone21/nonkabob-guliston/pkg/enums"
)

// Order is a submitted purchase header. Customer fields are denormalized
// snapshots of the profile at submission time; TotalPrice equals the sum of
// the line item extensions at creation and is not re-validated afterwards.
type Order struct {
	ID               int64             `gorm:"column:id;primaryKey;autoIncrement"`
	Status           enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	TotalPrice       int64             `gorm:"column:total_price;not null"`
	CustomerName     string            `gorm:"column:customer_name;not null;default:''"`
	CustomerPhone    string            `gorm:"column:customer_phone;not null;default:''"`
	DeliveryLocation string            `gorm:"column:delivery_location;not null;default:''"`
	TelegramUserID   int64             `gorm:"column:telegram_user_id;not null;index"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Order) TableName() string { return "orders" }
