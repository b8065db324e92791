package models

// Customer represents a customer account as returned by the API.
type Customer struct {
	ID      int64   `json:"id"`      // Server-assigned identifier
	Name    string  `json:"name"`    // Display name of the customer
	Phone   *string `json:"phone"`   // Optional phone number
	Email   *string `json:"email"`   // Optional email address
	Address *string `json:"address"` // Optional postal address
}

// CustomerCreate is the payload for creating a customer.
// Missing optional fields are sent as JSON null.
type CustomerCreate struct {
	Name    string  `json:"name"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
}

// CustomerUpdate is a partial update payload; unset fields are omitted
// and optional ones can be cleared with Null.
type CustomerUpdate struct {
	Name    *string       `json:"name,omitempty"`
	Phone   Patch[string] `json:"phone,omitzero"`
	Email   Patch[string] `json:"email,omitzero"`
	Address Patch[string] `json:"address,omitzero"`
}
