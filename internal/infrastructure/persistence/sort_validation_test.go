package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	assert.Equal(t, "ASC", ValidateSortOrder("asc"))
	assert.Equal(t, "ASC", ValidateSortOrder(" ASC "))
	assert.Equal(t, "DESC", ValidateSortOrder("desc"))
	assert.Equal(t, "DESC", ValidateSortOrder(""))
	assert.Equal(t, "DESC", ValidateSortOrder("drop table"))
}

func TestValidateSortField(t *testing.T) {
	t.Run("accepts whitelisted field", func(t *testing.T) {
		got := ValidateSortField("amount", PaymentSortFields, "payment_date")
		assert.Equal(t, "amount", got)
	})

	t.Run("falls back for unknown field", func(t *testing.T) {
		got := ValidateSortField("amount; DROP TABLE payments", PaymentSortFields, "payment_date")
		assert.Equal(t, "payment_date", got)
	})

	t.Run("falls back for empty field", func(t *testing.T) {
		got := ValidateSortField("  ", SaleSortFields, "sale_date")
		assert.Equal(t, "sale_date", got)
	})
}
