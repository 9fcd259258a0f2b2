package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/AliCapone21/nonkabob-guliston/internal/telegram"
	pkgerrors "github.com/AliCapone21/nonkabob-guliston/pkg/errors"
)

const (
	phonePrefix = "+998"
	phoneLength = 13
)

// Service exposes business rules for customer profiles. Checkout blocks
// until a profile is complete, so completeness lives here rather than
// in the order workflow.
type Service interface {
	CheckComplete(ctx context.Context, identity telegram.Identity) (bool, *ProfileDTO, error)
	Get(ctx context.Context, telegramID int64) (*ProfileDTO, error)
	Save(ctx context.Context, dto SaveProfileDTO) (*ProfileDTO, error)
}

type service struct {
	repo *Repository
}

// NewService builds a profile service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "users repo is required")
	}
	return &service{repo: repo}, nil
}

// CheckComplete resolves the profile gate for a request identity. A
// missing record is the new-user path, not an error.
func (s *service) CheckComplete(ctx context.Context, identity telegram.Identity) (bool, *ProfileDTO, error) {
	if !identity.HasUser() {
		return false, nil, nil
	}

	user, err := s.repo.FindByTelegramID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil, nil
		}
		return false, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}

	profile := FromModel(user)
	return IsCompletePhone(profile.PhoneNumber), profile, nil
}

// Get loads one profile or returns not-found.
func (s *service) Get(ctx context.Context, telegramID int64) (*ProfileDTO, error) {
	user, err := s.repo.FindByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	return FromModel(user), nil
}

// Save validates and upserts the profile. There is no local state to
// roll back; persistence failure surfaces as-is.
func (s *service) Save(ctx context.Context, dto SaveProfileDTO) (*ProfileDTO, error) {
	if dto.TelegramID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "telegram id is required")
	}
	if strings.TrimSpace(dto.FullName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name is required")
	}

	dto.PhoneNumber = telegram.NormalizePhone(dto.PhoneNumber)
	if !IsCompletePhone(dto.PhoneNumber) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone number must start with +998 and carry 9 digits")
	}

	if strings.TrimSpace(dto.AddressText) == "" && dto.Latitude != nil && dto.Longitude != nil {
		dto.AddressText = EncodeLocation(*dto.Latitude, *dto.Longitude)
	}

	user := dto.ToModel()
	if err := s.repo.Upsert(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save profile")
	}
	return FromModel(user), nil
}

// IsCompletePhone applies the strict national check: the +998 prefix
// followed by exactly nine digits.
func IsCompletePhone(phone string) bool {
	if !strings.HasPrefix(phone, phonePrefix) || len(phone) != phoneLength {
		return false
	}
	for _, r := range phone[len(phonePrefix):] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// EncodeLocation renders shared coordinates as the free-text address
// used on order snapshots.
func EncodeLocation(lat, lng float64) string {
	return fmt.Sprintf("GPS: %.5f, %.5f", lat, lng)
}
