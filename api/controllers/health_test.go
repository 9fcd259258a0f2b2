package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AliCapone21/nonkabob-guliston/pkg/config"
	pkgerrors "github.com/AliCapone21/nonkabob-guliston/pkg/errors"
	"github.com/AliCapone21/nonkabob-guliston/pkg/types"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error {
	return s.err
}

func TestHealthLive(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: config.AppEnvDev}}

	rec := httptest.NewRecorder()
	HealthLive(cfg)(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, config.AppEnvDev, rec.Header().Get("X-Nonkabob-Env"))
}

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: config.AppEnvDev}}

	rec := httptest.NewRecorder()
	HealthReady(cfg, nil, stubPinger{}, stubPinger{})(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthReadyReportsFailingDependency(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: config.AppEnvDev}}

	rec := httptest.NewRecorder()
	handler := HealthReady(cfg, nil, stubPinger{}, stubPinger{err: errors.New("redis down")})
	handler(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body types.ErrorEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, string(pkgerrors.CodeDependency), body.Error.Code)
}
