// internal/apperr/apperr_test.go
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, CodeValidation.HTTPStatus())
	assert.Equal(t, http.StatusUnprocessableEntity, CodeUnprocessable.HTTPStatus())
	assert.Equal(t, http.StatusUnauthorized, CodeUnauthorized.HTTPStatus())
	assert.Equal(t, http.StatusForbidden, CodeForbidden.HTTPStatus())
	assert.Equal(t, http.StatusNotFound, CodeNotFound.HTTPStatus())
	assert.Equal(t, http.StatusConflict, CodeConflict.HTTPStatus())
	assert.Equal(t, http.StatusBadGateway, CodeUpstream.HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, CodeInternal.HTTPStatus())
}

func TestIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("joining: %w", Conflict("already a member"))
	assert.True(t, errors.Is(err, Conflict("anything with the same code")))
	assert.False(t, errors.Is(err, NotFound("different code")))
}

func TestUnwrapKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Upstream("classifier unavailable", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestWriteDomainError(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, nil, NotFound("event not found"))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":{"code":"NOT_FOUND","message":"event not found"}}`, rec.Body.String())
}

func TestWriteUnclassifiedErrorIsOpaque(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, nil, errors.New("pq: password authentication failed"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "pq:")
	assert.JSONEq(t, `{"error":{"code":"INTERNAL","message":"internal error"}}`, rec.Body.String())
}
