// Package template implements the bracket-token message template engine.
// Substitution is literal text replacement: the record value is inserted
// verbatim and never interpreted as a pattern.
package template

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"linecrm-service/internal/domain/record"
)

// The standard template variables and the record fields they draw from.
const (
	VarCustomerName    = "ชื่อลูกค้า"
	VarOrderNumber     = "หมายเลขออเดอร์"
	VarDeliveryDate    = "วันที่จัดส่ง"
	VarDeliveryAddress = "ที่อยู่จัดส่ง"
)

// AddressNotSpecified renders in place of a missing optional address.
const AddressNotSpecified = "ที่อยู่ไม่ระบุ"

var variableRegex = regexp.MustCompile(`\[([^\]]+)\]`)

var thaiMonths = [...]string{
	"มกราคม", "กุมภาพันธ์", "มีนาคม", "เมษายน", "พฤษภาคม", "มิถุนายน",
	"กรกฎาคม", "สิงหาคม", "กันยายน", "ตุลาคม", "พฤศจิกายน", "ธันวาคม",
}

// FormatDeliveryDate renders a YYYY-MM-DD date in Thai long form with a
// Buddhist-era year, e.g. "22 มกราคม 2567". Unparseable input passes
// through unchanged.
func FormatDeliveryDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%d %s %d", t.Day(), thaiMonths[t.Month()-1], t.Year()+543)
}

// ExtractVariables scans template text and returns the bracketed variable
// names in first-occurrence order, de-duplicated.
func ExtractVariables(content string) []string {
	seen := make(map[string]bool)
	var vars []string
	for _, m := range variableRegex.FindAllStringSubmatch(content, -1) {
		name := m[1]
		if !seen[name] {
			seen[name] = true
			vars = append(vars, name)
		}
	}
	return vars
}

func variableValue(name string, rec *record.CustomerRecord) (string, bool) {
	switch name {
	case VarCustomerName:
		return rec.CustomerName, true
	case VarOrderNumber:
		return rec.OrderNumber, true
	case VarDeliveryDate:
		return FormatDeliveryDate(rec.DeliveryDate), true
	case VarDeliveryAddress:
		if rec.DeliveryAddress == "" {
			return AddressNotSpecified, true
		}
		return rec.DeliveryAddress, true
	}
	return "", false
}

// Resolve substitutes every occurrence of each declared variable with the
// record's rendered value. Variables the engine does not know stay in
// place, so resolving a template with no matching variables is a no-op.
func Resolve(content string, variables []string, rec *record.CustomerRecord) string {
	message := content
	for _, name := range variables {
		value, known := variableValue(name, rec)
		if !known {
			continue
		}
		message = strings.ReplaceAll(message, "["+name+"]", value)
	}
	return message
}

// Human-readable labels for missing-field reporting.
var fieldLabels = map[string]string{
	VarCustomerName:    "Customer Name",
	VarOrderNumber:     "Order Number",
	VarDeliveryDate:    "Delivery Date",
	VarDeliveryAddress: "Delivery Address",
}

// ValidateForRecord reports which of the template's declared variables
// have no value on the record, as human-readable field labels.
func ValidateForRecord(variables []string, rec *record.CustomerRecord) (bool, []string) {
	var missing []string
	for _, name := range variables {
		label, known := fieldLabels[name]
		if !known {
			continue
		}
		var empty bool
		switch name {
		case VarCustomerName:
			empty = rec.CustomerName == ""
		case VarOrderNumber:
			empty = rec.OrderNumber == ""
		case VarDeliveryDate:
			empty = rec.DeliveryDate == ""
		case VarDeliveryAddress:
			empty = rec.DeliveryAddress == ""
		}
		if empty {
			missing = append(missing, label)
		}
	}
	return len(missing) == 0, missing
}
