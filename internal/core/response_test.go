// AngelaMos | 2026
// response_test.go

package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestJSONErrorKeepsAppErrorStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONError(rec, fmt.Errorf("approve: %w", StateError("already a supporter")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.False(t, body.Success)
	require.NotNil(t, body.Error)
	assert.Equal(t, "ALREADY_IN_STATE", body.Error.Code)
	assert.Equal(t, "already a supporter", body.Error.Message)
}

func TestJSONErrorHidesUnknownErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONError(rec, errors.New("pq: connection reset"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "internal server error", body.Error.Message)
}

func TestPaginatedComputesTotalPages(t *testing.T) {
	rec := httptest.NewRecorder()
	Paginated(rec, []int{1, 2}, 2, 10, 21)

	body := decode(t, rec)
	require.NotNil(t, body.Meta)
	assert.Equal(t, 3, body.Meta.TotalPages)
	assert.Equal(t, 21, body.Meta.Total)
}

func TestAppErrorUnwrapsToSentinel(t *testing.T) {
	err := fmt.Errorf("wrap: %w", ForbiddenError(""))
	assert.ErrorIs(t, err, ErrForbidden)
	assert.True(t, IsAppError(err))
}

func TestValidatorCustomTags(t *testing.T) {
	v := NewValidator()

	type req struct {
		Username string `json:"username" validate:"required,username"`
		Phone    string `json:"phone"    validate:"required,phone"`
	}

	require.NoError(t, v.Struct(req{Username: "hong.gd+1", Phone: "010-1234-5678"}))

	err := v.Struct(req{Username: "bad name!", Phone: "12"})
	require.Error(t, err)
	msg := FormatValidationError(err)
	assert.Contains(t, msg, "username is invalid")
	assert.Contains(t, msg, "phone is invalid")
}
