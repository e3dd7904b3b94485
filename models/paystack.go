package models

// PaystackInitializeRequest is the body of POST /transaction/initialize.
// Amount is in the currency's minor unit.
type PaystackInitializeRequest struct {
	Email       string                 `json:"email"`
	Amount      int64                  `json:"amount"`
	Currency    string                 `json:"currency,omitempty"`
	Reference   string                 `json:"reference"`
	CallbackURL string                 `json:"callback_url,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// PaystackResponse represents the standard response envelope of the provider
type PaystackResponse struct {
	Status  bool                   `json:"status"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
}

// PaystackWebhookEvent is the webhook body; only the reference is trusted
type PaystackWebhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Status    string `json:"status"`
	} `json:"data"`
}

// TransactionResult is the verified state of a provider transaction
type TransactionResult struct {
	Reference string
	Status    string // "success", "failed", "abandoned", ...
	Amount    int64  // minor units
	Currency  string
	Channel   string
	PaidAt    string
}
