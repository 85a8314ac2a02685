package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func futureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format("2006-01-02")
}

func TestValidateName(t *testing.T) {
	t.Run("accepts Thai names", func(t *testing.T) {
		assert.True(t, ValidateName("สมชาย สุขใจ").IsValid)
	})

	t.Run("accepts English names with hyphen and apostrophe", func(t *testing.T) {
		assert.True(t, ValidateName("Mary-Jane O'Brien").IsValid)
	})

	t.Run("rejects empty", func(t *testing.T) {
		r := ValidateName("   ")
		assert.False(t, r.IsValid)
		assert.Equal(t, "Customer name is required", r.Error)
	})

	t.Run("rejects digits", func(t *testing.T) {
		assert.False(t, ValidateName("John 3rd").IsValid)
	})

	t.Run("rejects names over 100 characters", func(t *testing.T) {
		assert.False(t, ValidateName(strings.Repeat("a", 101)).IsValid)
		assert.True(t, ValidateName(strings.Repeat("a", 100)).IsValid)
	})
}

func TestValidatePhone(t *testing.T) {
	t.Run("empty is valid", func(t *testing.T) {
		assert.True(t, ValidatePhone("").IsValid)
	})

	t.Run("accepts canonical format", func(t *testing.T) {
		assert.True(t, ValidatePhone("+66-81-234-5678").IsValid)
	})

	t.Run("rejects undashed numbers", func(t *testing.T) {
		r := ValidatePhone("0812345678")
		assert.False(t, r.IsValid)
		assert.Equal(t, "Phone number must be in format +66-XX-XXX-XXXX", r.Error)
	})
}

func TestValidateLineUserID(t *testing.T) {
	t.Run("accepts U plus 32 hex", func(t *testing.T) {
		assert.True(t, ValidateLineUserID("U0123456789abcdef0123456789abcdef").IsValid)
		assert.True(t, ValidateLineUserID("UABCDEF0123456789abcdef012345678A").IsValid)
	})

	t.Run("rejects short ids", func(t *testing.T) {
		assert.False(t, ValidateLineUserID("U12345").IsValid)
	})

	t.Run("rejects missing prefix", func(t *testing.T) {
		assert.False(t, ValidateLineUserID("0123456789abcdef0123456789abcdef0").IsValid)
	})

	t.Run("rejects empty", func(t *testing.T) {
		r := ValidateLineUserID("")
		assert.False(t, r.IsValid)
		assert.Equal(t, "LINE User ID is required", r.Error)
	})
}

func TestValidateOrderNumber(t *testing.T) {
	t.Run("accepts standard form", func(t *testing.T) {
		assert.True(t, ValidateOrderNumber("ORD-2024-001").IsValid)
	})

	t.Run("accepts longer sequence", func(t *testing.T) {
		assert.True(t, ValidateOrderNumber("ORD-2024-123456").IsValid)
	})

	t.Run("rejects short sequence", func(t *testing.T) {
		assert.False(t, ValidateOrderNumber("ORD-2024-01").IsValid)
	})

	t.Run("rejects lower case prefix", func(t *testing.T) {
		assert.False(t, ValidateOrderNumber("ord-2024-001").IsValid)
	})
}

func TestValidateDeliveryDate(t *testing.T) {
	t.Run("accepts today", func(t *testing.T) {
		assert.True(t, ValidateDeliveryDate(futureDate(0)).IsValid)
	})

	t.Run("accepts future dates", func(t *testing.T) {
		assert.True(t, ValidateDeliveryDate(futureDate(30)).IsValid)
	})

	t.Run("rejects past dates", func(t *testing.T) {
		r := ValidateDeliveryDate(futureDate(-1))
		assert.False(t, r.IsValid)
		assert.Equal(t, "Delivery date must be today or in the future", r.Error)
	})

	t.Run("rejects malformed dates", func(t *testing.T) {
		r := ValidateDeliveryDate("20/01/2026")
		assert.False(t, r.IsValid)
		assert.Equal(t, "Delivery date must be in YYYY-MM-DD format", r.Error)
	})

	t.Run("rejects impossible dates", func(t *testing.T) {
		assert.False(t, ValidateDeliveryDate("2026-13-45").IsValid)
	})
}

func TestValidateAddress(t *testing.T) {
	t.Run("empty is valid", func(t *testing.T) {
		assert.True(t, ValidateAddress("").IsValid)
	})

	t.Run("rejects over 500 characters", func(t *testing.T) {
		assert.False(t, ValidateAddress(strings.Repeat("ก", 501)).IsValid)
		assert.True(t, ValidateAddress(strings.Repeat("ก", 500)).IsValid)
	})
}

func TestValidateRecord(t *testing.T) {
	valid := RecordInput{
		CustomerName: "สมชาย สุขใจ",
		Phone:        "+66-81-234-5678",
		LineUserID:   "U0123456789abcdef0123456789abcdef",
		OrderNumber:  "ORD-2024-001",
		DeliveryDate: futureDate(7),
	}

	t.Run("valid record yields empty map", func(t *testing.T) {
		assert.Empty(t, ValidateRecord(valid))
	})

	t.Run("errors are keyed by json field name", func(t *testing.T) {
		in := valid
		in.CustomerName = ""
		in.OrderNumber = "bogus"

		errs := ValidateRecord(in)
		assert.Len(t, errs, 2)
		assert.Contains(t, errs, "customerName")
		assert.Contains(t, errs, "orderNumber")
	})
}
