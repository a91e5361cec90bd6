package domain

// Confidence grades an advisor insight.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// TaxDeductionInsight flags an expense that is likely tax-deductible.
type TaxDeductionInsight struct {
	TransactionID string     `json:"transaction_id"`
	Reason        string     `json:"reason"`
	Confidence    Confidence `json:"confidence"`
}

// ChatRole identifies the author of a chat message.
type ChatRole string

const (
	RoleUser  ChatRole = "user"
	RoleModel ChatRole = "model"
)

// ChatMessage is one turn of an advisor conversation.
type ChatMessage struct {
	Role ChatRole `json:"role"`
	Text string   `json:"text"`
}
