package delivery

import "time"

// DeliveryStatus tracks one delivery's response lifecycle. Confirmed and
// rescheduled are response states; a delivery never moves backward from
// them to pending.
type DeliveryStatus string

const (
	StatusPending     DeliveryStatus = "pending"
	StatusConfirmed   DeliveryStatus = "confirmed"
	StatusRescheduled DeliveryStatus = "rescheduled"
	StatusNoResponse  DeliveryStatus = "no-response"
)

func (s DeliveryStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusRescheduled, StatusNoResponse:
		return true
	}
	return false
}

// Responded reports whether the status represents a customer response.
func (s DeliveryStatus) Responded() bool {
	return s == StatusConfirmed || s == StatusRescheduled
}

type Delivery struct {
	ID               string         `json:"id"`
	OrderID          string         `json:"orderId"`
	UserID           string         `json:"userId"`
	CustomerName     string         `json:"customerName"`
	DeliveryDate     string         `json:"deliveryDate"` // YYYY-MM-DD
	Status           DeliveryStatus `json:"status"`
	ResponseTime     *time.Time     `json:"responseTime"`
	NewDeliveryDate  string         `json:"newDeliveryDate,omitempty"`
	RescheduleReason string         `json:"rescheduleReason,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}
