package models

import "time"

// User stores the per-identity contact and delivery profile. The Telegram
// user id is the primary key; records are written with upsert semantics and
// never deleted.
type User struct {
	TelegramID  int64    `gorm:"column:telegram_id;primaryKey;autoIncrement:false"`
	FullName    string   `gorm:"column:full_name;not null;default:''"`
	PhoneNumber string   `gorm:"column:phone_number;not null;default:''"`
	AddressText string   `gorm:"column:address_text;not null;default:''"`
	Latitude    *float64 `gorm:"column:latitude"`
	Longitude   *float64 `gorm:"column:longitude"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string { return "users" }
