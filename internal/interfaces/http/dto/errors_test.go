package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, GetHTTPStatus(ErrCodeNotFound))
	assert.Equal(t, http.StatusBadRequest, GetHTTPStatus(ErrCodeInvalidInput))
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus(ErrCodeInternal))
	// Specific domain codes fall through to 422
	assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus("EXCEEDS_PRINCIPAL"))
	assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus("INSTALLMENT_PAYMENT"))
}

func TestNormalizeErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodeNotFound, NormalizeErrorCode("NOT_FOUND"))
	assert.Equal(t, ErrCodeInvalidInput, NormalizeErrorCode("INVALID_INPUT"))
	// Unmapped codes pass through
	assert.Equal(t, "EXCEEDS_PRINCIPAL", NormalizeErrorCode("EXCEEDS_PRINCIPAL"))
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Sale not found", "req-1")

	assert.False(t, resp.Success)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "req-1", resp.Error.RequestID)
}

func TestListRequest_ToFilter(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		filter := ListRequest{}.ToFilter()
		assert.Equal(t, 1, filter.Page)
		assert.Equal(t, 20, filter.PageSize)
		assert.Equal(t, "created_at", filter.OrderBy)
	})

	t.Run("explicit values win", func(t *testing.T) {
		filter := ListRequest{Page: 3, PageSize: 50, OrderBy: "amount", OrderDir: "asc", Search: "rent"}.ToFilter()
		assert.Equal(t, 3, filter.Page)
		assert.Equal(t, 50, filter.PageSize)
		assert.Equal(t, "amount", filter.OrderBy)
		assert.Equal(t, "asc", filter.OrderDir)
		assert.Equal(t, "rent", filter.Search)
	})
}
