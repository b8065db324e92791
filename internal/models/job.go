package models

// DefaultJobStatus is the status a job gets when none is given.
const DefaultJobStatus = "NEW"

// Job represents a scheduled piece of work for a customer.
// Links to the customer and technician are kept by id only.
type Job struct {
	ID               int64     `json:"id"`                 // Server-assigned identifier
	Title            string    `json:"title"`              // Short title of the job
	Description      *string   `json:"description"`        // Optional free text
	Status           string    `json:"status"`             // Free-text status label, "NEW" by default
	ScheduledStartAt Timestamp `json:"scheduled_start_at"` // Optional planned start
	ScheduledEndAt   Timestamp `json:"scheduled_end_at"`   // Optional planned end, not checked against start
	CustomerID       int64     `json:"customer_id"`        // Reference to Customer.ID
	TechnicianID     *string   `json:"technician_id"`      // Optional reference to Technician.ID
	CreatedByUserID  *int64    `json:"created_by_user_id"` // Read-only audit field
	UpdatedByUserID  *int64    `json:"updated_by_user_id"` // Read-only audit field
	CreatedAt        Timestamp `json:"created_at"`         // Read-only creation time
	UpdatedAt        Timestamp `json:"updated_at"`         // Read-only modification time
}

// JobCreate is the payload for creating a job.
type JobCreate struct {
	Title            string    `json:"title"`
	Description      *string   `json:"description"`
	Status           string    `json:"status,omitempty"`
	ScheduledStartAt Timestamp `json:"scheduled_start_at"`
	ScheduledEndAt   Timestamp `json:"scheduled_end_at"`
	CustomerID       int64     `json:"customer_id"`
	TechnicianID     *string   `json:"technician_id"`
}

// JobUpdate is a partial update payload; unset fields are omitted and
// nullable ones can be cleared with Null.
type JobUpdate struct {
	Title            *string          `json:"title,omitempty"`
	Description      Patch[string]    `json:"description,omitzero"`
	Status           *string          `json:"status,omitempty"`
	ScheduledStartAt Patch[Timestamp] `json:"scheduled_start_at,omitzero"`
	ScheduledEndAt   Patch[Timestamp] `json:"scheduled_end_at,omitzero"`
	CustomerID       *int64           `json:"customer_id,omitempty"`
	TechnicianID     Patch[string]    `json:"technician_id,omitzero"`
}
