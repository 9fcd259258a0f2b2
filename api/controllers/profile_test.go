package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AliCapone21/nonkabob-guliston/internal/telegram"
	"github.com/AliCapone21/nonkabob-guliston/internal/users"
	pkgerrors "github.com/AliCapone21/nonkabob-guliston/pkg/errors"
)

type stubProfileService struct {
	profiles map[int64]*users.ProfileDTO
	saved    []users.SaveProfileDTO
	saveErr  error
}

func newStubProfileService() *stubProfileService {
	return &stubProfileService{profiles: map[int64]*users.ProfileDTO{}}
}

func (s *stubProfileService) CheckComplete(ctx context.Context, identity telegram.Identity) (bool, *users.ProfileDTO, error) {
	if !identity.HasUser() {
		return false, nil, nil
	}
	profile, ok := s.profiles[identity.UserID]
	if !ok {
		return false, nil, nil
	}
	return users.IsCompletePhone(profile.PhoneNumber), profile, nil
}

func (s *stubProfileService) Get(ctx context.Context, telegramID int64) (*users.ProfileDTO, error) {
	profile, ok := s.profiles[telegramID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
	}
	return profile, nil
}

func (s *stubProfileService) Save(ctx context.Context, dto users.SaveProfileDTO) (*users.ProfileDTO, error) {
	if s.saveErr != nil {
		return nil, s.saveErr
	}
	s.saved = append(s.saved, dto)
	profile := &users.ProfileDTO{
		TelegramID:  dto.TelegramID,
		FullName:    dto.FullName,
		PhoneNumber: dto.PhoneNumber,
		AddressText: dto.AddressText,
		Latitude:    dto.Latitude,
		Longitude:   dto.Longitude,
	}
	s.profiles[dto.TelegramID] = profile
	return profile, nil
}

func identifiedRequest(method, target, body string, userID int64) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	identity := telegram.Identity{Availability: telegram.AvailabilityUser, UserID: userID, FirstName: "Aziz"}
	return req.WithContext(telegram.WithIdentity(req.Context(), identity))
}

func TestGetProfileGuest(t *testing.T) {
	svc := newStubProfileService()

	rec := httptest.NewRecorder()
	GetProfile(svc, nil)(rec, httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			Complete bool              `json:"complete"`
			Profile  *users.ProfileDTO `json:"profile"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.False(t, body.Data.Complete)
	assert.Nil(t, body.Data.Profile)
}

func TestSaveProfileRequiresUser(t *testing.T) {
	svc := newStubProfileService()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/profile", strings.NewReader(`{"full_name":"Aziz","phone_number":"+998901234567"}`))
	SaveProfile(svc, nil)(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, svc.saved)
}

func TestSaveProfile(t *testing.T) {
	svc := newStubProfileService()

	rec := httptest.NewRecorder()
	req := identifiedRequest(http.MethodPut, "/api/v1/profile", `{"full_name":"Aziz","phone_number":"+998901234567","address_text":"Guliston"}`, 7)
	SaveProfile(svc, nil)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, svc.saved, 1)
	assert.Equal(t, int64(7), svc.saved[0].TelegramID)
	assert.Equal(t, "Guliston", svc.saved[0].AddressText)
}

func TestSaveProfileRejectsMissingFields(t *testing.T) {
	svc := newStubProfileService()

	rec := httptest.NewRecorder()
	req := identifiedRequest(http.MethodPut, "/api/v1/profile", `{"full_name":"Aziz"}`, 7)
	SaveProfile(svc, nil)(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, svc.saved)
}

func TestShareContactMergesPhone(t *testing.T) {
	svc := newStubProfileService()
	svc.profiles[7] = &users.ProfileDTO{TelegramID: 7, FullName: "Aziz"}

	payload := `{"supported":true,"sent":true,"response_unsafe":{"contact":{"phone_number":"998901234567"}}}`
	rec := httptest.NewRecorder()
	ShareContact(svc, nil)(rec, identifiedRequest(http.MethodPost, "/api/v1/profile/contact", payload, 7))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data telegram.ContactShareResult `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, telegram.ContactAcceptedWithNumber, body.Data.Outcome)
	assert.Equal(t, "+998901234567", body.Data.Phone)

	require.Len(t, svc.saved, 1)
	assert.Equal(t, "+998901234567", svc.saved[0].PhoneNumber)
}

func TestShareContactDeclinedLeavesProfileAlone(t *testing.T) {
	svc := newStubProfileService()
	svc.profiles[7] = &users.ProfileDTO{TelegramID: 7, FullName: "Aziz"}

	rec := httptest.NewRecorder()
	ShareContact(svc, nil)(rec, identifiedRequest(http.MethodPost, "/api/v1/profile/contact", `{"supported":true,"sent":false}`, 7))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data telegram.ContactShareResult `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, telegram.ContactDeclined, body.Data.Outcome)
	assert.Empty(t, svc.saved)
}
