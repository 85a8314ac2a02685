package dispatch

// ItemStatus is the per-recipient dispatch state machine:
// pending → sending → {sent | failed}. Terminal states are final; there is
// no retry within one dispatch invocation.
type ItemStatus string

const (
	ItemPending ItemStatus = "pending"
	ItemSending ItemStatus = "sending"
	ItemSent    ItemStatus = "sent"
	ItemFailed  ItemStatus = "failed"
)

// Failure reasons for a single recipient.
const (
	ReasonMissingRecipientID = "missing recipient identifier"
	ReasonInvalidRecipientID = "invalid recipient identifier"
	ReasonTransportError     = "network error while sending message"
	ReasonProviderRejected   = "message rejected by provider"
)

// Item is the transient per-recipient tracking entry. It exists only for
// the duration of one dispatch and is owned exclusively by the workflow.
type Item struct {
	RecordID    string     `json:"recordId,omitempty"`
	RecipientID string     `json:"recipientId"`
	Message     string     `json:"-"`
	Status      ItemStatus `json:"status"`
	Error       string     `json:"error,omitempty"`
}

type RecipientResult struct {
	UserID  string `json:"userId"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Result is the aggregate returned once every item reaches a terminal
// state. TotalSent counts attempted recipients, successful or not.
type Result struct {
	TotalSent  int               `json:"totalSent"`
	Successful int               `json:"successful"`
	Failed     int               `json:"failed"`
	Results    []RecipientResult `json:"results"`
}

// BulkMessageRequest is the raw wire form: explicit recipient/message
// pairs, no record involvement.
type BulkMessageRequest struct {
	Recipients []BulkRecipient `json:"recipients" binding:"required"`
}

type BulkRecipient struct {
	RecipientID string `json:"recipientId"`
	Message     string `json:"message"`
}

// DispatchRequest targets stored customer records with either a template
// or a literal message. Exactly one of TemplateID and Message is used;
// TemplateID wins when both are set.
type DispatchRequest struct {
	RecordIDs  []string `json:"recordIds" binding:"required"`
	TemplateID string   `json:"templateId"`
	Message    string   `json:"message"`
}
