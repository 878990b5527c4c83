package models

// Error kinds surfaced in a failed RegisterResponse.
const (
	ErrorKindValidation = "validation"
	ErrorKindProcessor  = "processor"
	ErrorKindGateway    = "gateway"
)

// TicketInfo carries the order portion of a submission. Amount and quantity
// are passed through unvalidated.
type TicketInfo struct {
	TotalAmount float64 `json:"total_amount"`
	Quantity    int     `json:"quantity"`
}

// Address is the purchaser's billing address
type Address struct {
	StreetAddress string `json:"street_address"`
	City          string `json:"city"`
	State         string `json:"state"`
	Zip           string `json:"zip"`
}

// PurchaserInfo identifies the purchaser
type PurchaserInfo struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	Address   Address `json:"address"`
}

// RegistrationRequest is the raw, untrusted form submission
type RegistrationRequest struct {
	TicketInfo    TicketInfo    `json:"ticket_info"`
	PurchaserInfo PurchaserInfo `json:"purchaser_info"`
	Nonce         string        `json:"nonce"`
}

// Registration is a submission whose fields have all passed validation.
// Fields that failed their check are blanked; the failure reasons travel
// separately, so a Registration with no reported errors is safe to charge.
type Registration struct {
	TicketInfo    TicketInfo
	PurchaserInfo PurchaserInfo
	Nonce         string
}

// Customer is the customer block of a charge request
type Customer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

// BillingAddress is the billing block of a charge request
type BillingAddress struct {
	StreetAddress   string `json:"street_address"`
	ExtendedAddress string `json:"extended_address,omitempty"`
	Locality        string `json:"locality"`
	Region          string `json:"region"`
	PostalCode      string `json:"postal_code"`
}

// ChargeOptions controls gateway settlement behavior
type ChargeOptions struct {
	SubmitForSettlement bool `json:"submit_for_settlement"`
}

// ChargeCustomFields carries merchant-defined fields on a charge
type ChargeCustomFields struct {
	TicketCount int `json:"ticket_count"`
}

// ChargeRequest is the sale request submitted to the payment gateway.
// Built only from a Registration that validated cleanly.
type ChargeRequest struct {
	Amount             float64            `json:"amount"`
	PaymentMethodNonce string             `json:"payment_method_nonce"`
	Customer           Customer           `json:"customer"`
	Billing            BillingAddress     `json:"billing"`
	Options            ChargeOptions      `json:"options"`
	CustomFields       ChargeCustomFields `json:"custom_fields"`
}

// CreditCardDetails is the payment-instrument fragment of a settled charge
type CreditCardDetails struct {
	Last4 string `json:"last_4"`
}

// Transaction describes a settled charge
type Transaction struct {
	ID         string            `json:"id"`
	Amount     float64           `json:"amount"`
	CreditCard CreditCardDetails `json:"credit_card"`
}

// ChargeResult is the gateway's outcome for a sale. On rejection Success is
// false and Message carries the gateway-supplied reason.
type ChargeResult struct {
	Success     bool         `json:"success"`
	Message     string       `json:"message,omitempty"`
	Transaction *Transaction `json:"transaction,omitempty"`
}

// ClientTokenResponse is returned by the token endpoint
type ClientTokenResponse struct {
	ClientToken string `json:"clientToken"`
}

// ResultError describes why a registration failed
type ResultError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// RegisterResponse is the registration outcome returned to the caller.
// CreditCardLast4 and TotalAmount are only populated when the confirmation
// email was delivered.
type RegisterResponse struct {
	Success         bool         `json:"success"`
	TransactionID   string       `json:"transactionId,omitempty"`
	CreditCardLast4 string       `json:"creditCardLast4,omitempty"`
	TotalAmount     float64      `json:"totalAmount,omitempty"`
	Error           *ResultError `json:"error,omitempty"`
}

// EmailPayload holds the substitution values for the confirmation template.
// TotalAmount is pre-formatted as a currency string.
type EmailPayload struct {
	PurchaserFirstName string
	PurchaserEmail     string
	TotalAmount        string
	TransactionID      string
	CreditCardLast4    string
	TicketCount        int
}
