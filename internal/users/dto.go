package users

import (
	"time"

	"github.com/AliCapone21/nonkabob-guliston/pkg/db/models"
)

// ProfileDTO is the transport shape of a customer profile.
type ProfileDTO struct {
	TelegramID  int64     `json:"telegram_id"`
	FullName    string    `json:"full_name"`
	PhoneNumber string    `json:"phone_number"`
	AddressText string    `json:"address_text,omitempty"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SaveProfileDTO holds the data required to upsert a profile.
type SaveProfileDTO struct {
	TelegramID  int64
	FullName    string
	PhoneNumber string
	AddressText string
	Latitude    *float64
	Longitude   *float64
}

func FromModel(u *models.User) *ProfileDTO {
	if u == nil {
		return nil
	}

	return &ProfileDTO{
		TelegramID:  u.TelegramID,
		FullName:    u.FullName,
		PhoneNumber: u.PhoneNumber,
		AddressText: u.AddressText,
		Latitude:    u.Latitude,
		Longitude:   u.Longitude,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func (d SaveProfileDTO) ToModel() *models.User {
	return &models.User{
		TelegramID:  d.TelegramID,
		FullName:    d.FullName,
		PhoneNumber: d.PhoneNumber,
		AddressText: d.AddressText,
		Latitude:    d.Latitude,
		Longitude:   d.Longitude,
	}
}
