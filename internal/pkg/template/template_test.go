package template

import (
	"testing"

	"linecrm-service/internal/domain/record"

	"github.com/stretchr/testify/assert"
)

func sampleRecord() *record.CustomerRecord {
	return &record.CustomerRecord{
		CustomerName:    "สมชาย สุขใจ",
		OrderNumber:     "ORD-2024-001",
		DeliveryDate:    "2024-01-22",
		DeliveryAddress: "123 ถนนสุขุมวิท กรุงเทพฯ",
	}
}

func TestFormatDeliveryDate(t *testing.T) {
	t.Run("renders Thai long form with Buddhist year", func(t *testing.T) {
		assert.Equal(t, "22 มกราคม 2567", FormatDeliveryDate("2024-01-22"))
		assert.Equal(t, "5 ธันวาคม 2569", FormatDeliveryDate("2026-12-05"))
	})

	t.Run("unparseable input passes through", func(t *testing.T) {
		assert.Equal(t, "someday", FormatDeliveryDate("someday"))
	})
}

func TestExtractVariables(t *testing.T) {
	t.Run("first-occurrence order, de-duplicated", func(t *testing.T) {
		vars := ExtractVariables("[ชื่อลูกค้า] และ [วันที่จัดส่ง] และ [ชื่อลูกค้า]")
		assert.Equal(t, []string{"ชื่อลูกค้า", "วันที่จัดส่ง"}, vars)
	})

	t.Run("no variables yields nil", func(t *testing.T) {
		assert.Empty(t, ExtractVariables("plain text"))
	})
}

func TestResolve(t *testing.T) {
	vars := []string{VarCustomerName, VarOrderNumber, VarDeliveryDate, VarDeliveryAddress}

	t.Run("substitutes every variable", func(t *testing.T) {
		content := "คุณ[ชื่อลูกค้า] ออเดอร์ [หมายเลขออเดอร์] ส่ง [วันที่จัดส่ง] ที่ [ที่อยู่จัดส่ง]"
		got := Resolve(content, vars, sampleRecord())
		assert.Equal(t, "คุณสมชาย สุขใจ ออเดอร์ ORD-2024-001 ส่ง 22 มกราคม 2567 ที่ 123 ถนนสุขุมวิท กรุงเทพฯ", got)
	})

	t.Run("missing address renders placeholder", func(t *testing.T) {
		rec := sampleRecord()
		rec.DeliveryAddress = ""
		got := Resolve("ที่อยู่: [ที่อยู่จัดส่ง]", vars, rec)
		assert.Equal(t, "ที่อยู่: "+AddressNotSpecified, got)
	})

	t.Run("unknown variables stay in place", func(t *testing.T) {
		content := "สวัสดี [อะไรสักอย่าง]"
		assert.Equal(t, content, Resolve(content, ExtractVariables(content), sampleRecord()))
	})

	t.Run("resolving twice is a no-op", func(t *testing.T) {
		content := "คุณ[ชื่อลูกค้า]"
		once := Resolve(content, vars, sampleRecord())
		assert.Equal(t, once, Resolve(once, vars, sampleRecord()))
	})

	t.Run("repeated variable substitutes every occurrence", func(t *testing.T) {
		got := Resolve("[ชื่อลูกค้า] [ชื่อลูกค้า]", vars, sampleRecord())
		assert.Equal(t, "สมชาย สุขใจ สมชาย สุขใจ", got)
	})
}

func TestValidateForRecord(t *testing.T) {
	vars := []string{VarCustomerName, VarOrderNumber, VarDeliveryDate, VarDeliveryAddress}

	t.Run("complete record is valid", func(t *testing.T) {
		ok, missing := ValidateForRecord(vars, sampleRecord())
		assert.True(t, ok)
		assert.Empty(t, missing)
	})

	t.Run("missing fields get human-readable labels", func(t *testing.T) {
		rec := sampleRecord()
		rec.DeliveryAddress = ""
		rec.CustomerName = ""

		ok, missing := ValidateForRecord(vars, rec)
		assert.False(t, ok)
		assert.Equal(t, []string{"Customer Name", "Delivery Address"}, missing)
	})

	t.Run("unused variables are ignored", func(t *testing.T) {
		rec := sampleRecord()
		rec.DeliveryAddress = ""

		ok, missing := ValidateForRecord([]string{VarCustomerName}, rec)
		assert.True(t, ok)
		assert.Empty(t, missing)
	})
}
