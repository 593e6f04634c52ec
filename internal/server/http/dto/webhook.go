package dto

// WebhookEventData carries the transaction details of a gateway event.
// Amount is in minor currency units.
type WebhookEventData struct {
	Reference       string `json:"reference"`
	Amount          int64  `json:"amount"`
	Status          string `json:"status"`
	GatewayResponse string `json:"gateway_response"`
	PaidAt          string `json:"paid_at"`
}

// WebhookEvent is the envelope the payment gateway posts.
type WebhookEvent struct {
	Event string           `json:"event"`
	Data  WebhookEventData `json:"data"`
}

// WebhookResponse acknowledges a gateway delivery.
type WebhookResponse struct {
	Processed             bool   `json:"processed"`
	Message               string `json:"message,omitempty"`
	PreviousPaymentStatus string `json:"previous_payment_status,omitempty"`
	PaymentStatus         string `json:"payment_status,omitempty"`
}
