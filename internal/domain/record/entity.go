package record

import "time"

// RecordStatus is the user/import-set lifecycle status of a customer record.
type RecordStatus string

const (
	StatusReady   RecordStatus = "ready"
	StatusEdited  RecordStatus = "edited"
	StatusInvalid RecordStatus = "invalid"
)

func (s RecordStatus) Valid() bool {
	switch s {
	case StatusReady, StatusEdited, StatusInvalid:
		return true
	}
	return false
}

type CustomerRecord struct {
	ID              string       `json:"id"`
	CustomerName    string       `json:"customerName"`
	Phone           string       `json:"phone,omitempty"`
	LineUserID      string       `json:"lineUserId"`
	OrderNumber     string       `json:"orderNumber"`
	DeliveryDate    string       `json:"deliveryDate"` // YYYY-MM-DD
	DeliveryAddress string       `json:"deliveryAddress,omitempty"`
	Notes           string       `json:"notes,omitempty"`
	Status          RecordStatus `json:"status"`
	LastModified    time.Time    `json:"lastModified"`
	CreatedAt       time.Time    `json:"createdAt"`
}

// FieldValue returns the value of a sortable/searchable field by its JSON
// name. Empty string stands in for an unset optional field.
func (r *CustomerRecord) FieldValue(field string) string {
	switch field {
	case "customerName":
		return r.CustomerName
	case "phone":
		return r.Phone
	case "lineUserId":
		return r.LineUserID
	case "orderNumber":
		return r.OrderNumber
	case "deliveryDate":
		return r.DeliveryDate
	case "deliveryAddress":
		return r.DeliveryAddress
	case "notes":
		return r.Notes
	case "status":
		return string(r.Status)
	}
	return ""
}

// SortableFields is the closed set of field names accepted by sortBy.
// Client-supplied field names outside this set are rejected at the API
// boundary rather than trusted to index into records.
var SortableFields = map[string]bool{
	"customerName":    true,
	"phone":           true,
	"lineUserId":      true,
	"orderNumber":     true,
	"deliveryDate":    true,
	"deliveryAddress": true,
	"notes":           true,
	"status":          true,
	"lastModified":    true,
	"createdAt":       true,
}
