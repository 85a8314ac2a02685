package record

type CreateRecordRequest struct {
	CustomerName    string `json:"customerName"`
	Phone           string `json:"phone"`
	LineUserID      string `json:"lineUserId"`
	OrderNumber     string `json:"orderNumber"`
	DeliveryDate    string `json:"deliveryDate"`
	DeliveryAddress string `json:"deliveryAddress"`
	Notes           string `json:"notes"`
	Status          string `json:"status"`
}

// UpdateRecordRequest carries a partial update; nil fields are left alone.
type UpdateRecordRequest struct {
	CustomerName    *string `json:"customerName"`
	Phone           *string `json:"phone"`
	LineUserID      *string `json:"lineUserId"`
	OrderNumber     *string `json:"orderNumber"`
	DeliveryDate    *string `json:"deliveryDate"`
	DeliveryAddress *string `json:"deliveryAddress"`
	Notes           *string `json:"notes"`
	Status          *string `json:"status"`
}

type ListFilters struct {
	Search    string `form:"search"`
	Status    string `form:"status"` // all, ready, edited, invalid
	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
	SortBy    string `form:"sortBy"`
	SortOrder string `form:"sortOrder" binding:"omitempty,oneof=asc desc"`
}

type ListResponse struct {
	Data       []CustomerRecord `json:"data"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"totalPages"`
}

type Stats struct {
	TotalRecords int    `json:"totalRecords"`
	ReadyToSend  int    `json:"readyToSend"`
	Edited       int    `json:"edited"`
	Invalid      int    `json:"invalid"`
	LastSync     string `json:"lastSync"` // ISO timestamp of the stats call
}

type BulkDeleteRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

type BulkDeleteResult struct {
	DeletedCount int      `json:"deletedCount"`
	Errors       []string `json:"errors"`
}

// ValidationReport is the derived-validity view of a stored record. The
// stored Status field is user/import-set and is reported alongside, not
// overwritten.
type ValidationReport struct {
	IsValid bool              `json:"isValid"`
	Errors  map[string]string `json:"errors"`
	Status  RecordStatus      `json:"status"`
}
