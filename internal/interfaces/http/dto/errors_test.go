package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/parcelco/backoffice/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeServiceUnavailable, http.StatusServiceUnavailable},
		{ErrCodeBodyTooLarge, http.StatusRequestEntityTooLarge},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{"ERR_INVALID_STATUS", http.StatusBadRequest},
		{"ERR_INVALID_FORMAT", http.StatusBadRequest},
		{"ERR_SERVICE_NOT_FOUND", http.StatusNotFound},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := map[string]string{
		"NOT_FOUND":        ErrCodeNotFound,
		"INVALID_INPUT":    ErrCodeInvalidInput,
		"INVALID_STATE":    ErrCodeInvalidState,
		"INVALID_STATUS":   "ERR_INVALID_STATUS",
		"INVALID_FORMAT":   "ERR_INVALID_FORMAT",
		"PDF_UNAVAILABLE":  ErrCodeServiceUnavailable,
		"SERVICE_INACTIVE": ErrCodeBusinessRule,
		ErrCodeForbidden:   ErrCodeForbidden,
		"":                 "",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeErrorCode(in), in)
	}

	// every domain code maps to a non-500 status except internal ones
	assert.Equal(t, http.StatusServiceUnavailable, GetHTTPStatus(NormalizeErrorCode("PDF_UNAVAILABLE")))
	assert.Equal(t, http.StatusBadRequest, GetHTTPStatus(NormalizeErrorCode("INVALID_TRACKING_NUMBER")))
	assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus(NormalizeErrorCode("SERVICE_INACTIVE")))
}

func TestNewPaginatedResponse(t *testing.T) {
	seq := uint64(7)
	resp := NewPaginatedResponse(shared.NewPaginated([]string{"a", "b"}, 42, 2, 20), &seq)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"success": true,
		"data": ["a", "b"],
		"meta": {"total": 42, "page": 2, "page_size": 20, "total_pages": 3, "request_seq": 7}
	}`, string(raw))
}

func TestNewPaginatedResponse_EmptyPageIsArray(t *testing.T) {
	resp := NewPaginatedResponse(shared.Paginated[string]{Page: 5, PageSize: 20}, nil)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"data":[]`)
	assert.NotContains(t, string(raw), "request_seq")
}

func TestNewValidationErrorResponse(t *testing.T) {
	resp := NewValidationErrorResponse("Request validation failed", "req-1", []ValidationDetail{
		{Field: "email", Message: "Invalid email format"},
	})

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-1", resp.Error.RequestID)
	assert.Len(t, resp.Error.Details, 1)
}
