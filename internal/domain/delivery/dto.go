package delivery

type CreateDeliveryRequest struct {
	OrderID      string `json:"orderId" binding:"required"`
	UserID       string `json:"userId" binding:"required"`
	CustomerName string `json:"customerName" binding:"required"`
	DeliveryDate string `json:"deliveryDate" binding:"required"`
	Status       string `json:"status"`
}

type UpdateDeliveryRequest struct {
	CustomerName     *string `json:"customerName"`
	DeliveryDate     *string `json:"deliveryDate"`
	Status           *string `json:"status"`
	NewDeliveryDate  *string `json:"newDeliveryDate"`
	RescheduleReason *string `json:"rescheduleReason"`
}

// RecordResponseRequest records a customer's reply to a delivery message.
type RecordResponseRequest struct {
	Status           string `json:"status" binding:"required,oneof=confirmed rescheduled no-response"`
	NewDeliveryDate  string `json:"newDeliveryDate"`
	RescheduleReason string `json:"rescheduleReason"`
}

type ListFilters struct {
	Status string `form:"status"`
	Search string `form:"search"`
}

type Stats struct {
	TotalDeliveries int     `json:"totalDeliveries"`
	Confirmed       int     `json:"confirmed"`
	Rescheduled     int     `json:"rescheduled"`
	Pending         int     `json:"pending"`
	NoResponse      int     `json:"noResponse"`
	ResponseRate    float64 `json:"responseRate"`    // percent, one decimal
	AvgResponseTime string  `json:"avgResponseTime"` // e.g. "3.4 hours"
}

type DailyPerformance struct {
	Date        string `json:"date"`
	Sent        int    `json:"sent"`
	Confirmed   int    `json:"confirmed"`
	Rescheduled int    `json:"rescheduled"`
	NoResponse  int    `json:"noResponse"`
}

type RescheduleReason struct {
	Reason string `json:"reason"`
	Count  int    `json:"count"`
}
