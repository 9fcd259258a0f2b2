package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/AliCapone21/nonkabob-guliston/pkg/errors"
)

type samplePayload struct {
	FullName string `json:"full_name" validate:"required"`
	Quantity int    `json:"quantity" validate:"min=1"`
}

func decodeSample(t *testing.T, body string) (samplePayload, error) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	var dest samplePayload
	err := DecodeJSONBody(req, &dest)
	return dest, err
}

func TestDecodeJSONBody(t *testing.T) {
	dest, err := decodeSample(t, `{"full_name":"Aziz","quantity":2}`)
	require.NoError(t, err)
	assert.Equal(t, "Aziz", dest.FullName)
	assert.Equal(t, 2, dest.Quantity)
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	_, err := decodeSample(t, `{"full_name":"Aziz","quantity":1,"extra":true}`)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestDecodeJSONBodyReportsFieldsByJSONTag(t *testing.T) {
	_, err := decodeSample(t, `{"quantity":0}`)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)

	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "is required", details["full_name"])
	assert.Contains(t, details["quantity"], "must be at least")
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=10", nil)
	value, err := ParseQueryInt(req, "limit", 25, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 10, value)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	value, err = ParseQueryInt(req, "limit", 25, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 25, value)

	req = httptest.NewRequest(http.MethodGet, "/?limit=oops", nil)
	_, err = ParseQueryInt(req, "limit", 25, 1, 100)
	require.Error(t, err)

	req = httptest.NewRequest(http.MethodGet, "/?limit=500", nil)
	_, err = ParseQueryInt(req, "limit", 25, 1, 100)
	require.Error(t, err)
}
