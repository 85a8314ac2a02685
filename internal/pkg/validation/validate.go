// Package validation holds the pure field validators and formatters for
// customer records. Everything here is side-effect free; the HTTP layer
// and the CSV importer share the same functions so a record is judged the
// same way no matter how it arrives.
package validation

import (
	"regexp"
	"strings"
	"time"
)

var (
	// Thai block plus English letters, space, hyphen, apostrophe.
	nameRegex = regexp.MustCompile(`^[\x{0E00}-\x{0E7F}a-zA-Z\s'-]+$`)

	// Thai mobile format +66-XX-XXX-XXXX.
	phoneRegex = regexp.MustCompile(`^\+66-\d{2}-\d{3}-\d{4}$`)

	// LINE user id: 'U' followed by 32 hex characters.
	lineUserIDRegex = regexp.MustCompile(`^U[0-9a-fA-F]{32}$`)

	// Order number ORD-YYYY-XXX with at least three trailing digits.
	orderNumberRegex = regexp.MustCompile(`^ORD-\d{4}-\d{3,}$`)

	dateFormatRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// Result is the outcome of a single field validator.
type Result struct {
	IsValid bool
	Error   string
}

func ok() Result {
	return Result{IsValid: true}
}

func fail(msg string) Result {
	return Result{IsValid: false, Error: msg}
}

func ValidateName(name string) Result {
	if strings.TrimSpace(name) == "" {
		return fail("Customer name is required")
	}
	if len([]rune(name)) > 100 {
		return fail("Customer name must be less than 100 characters")
	}
	if !nameRegex.MatchString(name) {
		return fail("Customer name must contain only Thai, English characters, spaces, hyphens, and apostrophes")
	}
	return ok()
}

// ValidatePhone treats an empty value as valid; the field is optional.
func ValidatePhone(phone string) Result {
	if strings.TrimSpace(phone) == "" {
		return ok()
	}
	if !phoneRegex.MatchString(phone) {
		return fail("Phone number must be in format +66-XX-XXX-XXXX")
	}
	return ok()
}

func ValidateLineUserID(userID string) Result {
	if strings.TrimSpace(userID) == "" {
		return fail("LINE User ID is required")
	}
	if !lineUserIDRegex.MatchString(userID) {
		return fail("LINE User ID must start with 'U' followed by 32 hexadecimal characters")
	}
	return ok()
}

func ValidateOrderNumber(orderNumber string) Result {
	if strings.TrimSpace(orderNumber) == "" {
		return fail("Order number is required")
	}
	if !orderNumberRegex.MatchString(orderNumber) {
		return fail("Order number must be in format ORD-YYYY-XXX")
	}
	return ok()
}

// ValidateDeliveryDate requires YYYY-MM-DD and a date no earlier than
// today. The comparison is date-only in local time.
func ValidateDeliveryDate(date string) Result {
	if strings.TrimSpace(date) == "" {
		return fail("Delivery date is required")
	}
	if !dateFormatRegex.MatchString(date) {
		return fail("Delivery date must be in YYYY-MM-DD format")
	}
	parsed, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return fail("Delivery date must be in YYYY-MM-DD format")
	}
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	if parsed.Before(today) {
		return fail("Delivery date must be today or in the future")
	}
	return ok()
}

// ValidateAddress treats an empty value as valid; the field is optional.
func ValidateAddress(address string) Result {
	if strings.TrimSpace(address) == "" {
		return ok()
	}
	if len([]rune(address)) > 500 {
		return fail("Delivery address must be less than 500 characters")
	}
	return ok()
}

// RecordInput carries the validatable fields of a customer record,
// whether they come from a create request, a stored record, or a CSV row.
type RecordInput struct {
	CustomerName    string
	Phone           string
	LineUserID      string
	OrderNumber     string
	DeliveryDate    string
	DeliveryAddress string
}

// ValidateRecord runs every field validator and returns a field→error map
// keyed by JSON field name. The record is valid iff the map is empty.
func ValidateRecord(in RecordInput) map[string]string {
	errs := make(map[string]string)

	if r := ValidateName(in.CustomerName); !r.IsValid {
		errs["customerName"] = r.Error
	}
	if r := ValidatePhone(in.Phone); !r.IsValid {
		errs["phone"] = r.Error
	}
	if r := ValidateLineUserID(in.LineUserID); !r.IsValid {
		errs["lineUserId"] = r.Error
	}
	if r := ValidateOrderNumber(in.OrderNumber); !r.IsValid {
		errs["orderNumber"] = r.Error
	}
	if r := ValidateDeliveryDate(in.DeliveryDate); !r.IsValid {
		errs["deliveryDate"] = r.Error
	}
	if r := ValidateAddress(in.DeliveryAddress); !r.IsValid {
		errs["deliveryAddress"] = r.Error
	}

	return errs
}
