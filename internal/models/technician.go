package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// TechnicianID identifies a technician. The API may send it either as a
// JSON string (UUID) or as a number, both decode to the same textual form.
type TechnicianID string

// UnmarshalJSON accepts both string and numeric ids.
func (id *TechnicianID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("failed to decode technician id: %w", err)
		}
		*id = TechnicianID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("failed to decode technician id: %w", err)
	}
	*id = TechnicianID(n.String())
	return nil
}

func (id TechnicianID) String() string {
	return string(id)
}

// Technician represents a field technician.
type Technician struct {
	ID        TechnicianID `json:"id"`                   // String or numeric identifier
	FirstName string       `json:"first_name,omitempty"` // Given name
	LastName  string       `json:"last_name,omitempty"`  // Family name
	Email     string       `json:"email,omitempty"`      // Contact email
	Phone     string       `json:"phone,omitempty"`      // Optional phone number
	Skills    []string     `json:"skills,omitempty"`     // Ordered list of skills
	IsActive  *bool        `json:"is_active,omitempty"`  // Missing value means active
	CreatedAt Timestamp    `json:"created_at"`           // Read-only creation time
	UpdatedAt Timestamp    `json:"updated_at"`           // Read-only modification time
}

// FullName joins first and last name with a single space, skipping empty parts.
func (t Technician) FullName() string {
	parts := make([]string, 0, 2) //nolint:mnd // first and last name
	if t.FirstName != "" {
		parts = append(parts, t.FirstName)
	}
	if t.LastName != "" {
		parts = append(parts, t.LastName)
	}
	return strings.Join(parts, " ")
}

// Active reports whether the technician is active. Only an explicit false is inactive.
func (t Technician) Active() bool {
	return t.IsActive == nil || *t.IsActive
}

// SkillList returns skills joined by ", ".
func (t Technician) SkillList() string {
	return strings.Join(t.Skills, ", ")
}

// HasSkill reports whether skill is one of the technician's skills (exact match).
func (t Technician) HasSkill(skill string) bool {
	for _, s := range t.Skills {
		if s == skill {
			return true
		}
	}
	return false
}

// TechnicianCreate is the payload for creating a technician.
type TechnicianCreate struct {
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone,omitempty"`
	Skills    []string `json:"skills,omitempty"`
	IsActive  bool     `json:"is_active"`
}

// TechnicianUpdate is a partial update payload; nil fields are omitted.
type TechnicianUpdate struct {
	FirstName *string  `json:"first_name,omitempty"`
	LastName  *string  `json:"last_name,omitempty"`
	Email     *string  `json:"email,omitempty"`
	Phone     *string  `json:"phone,omitempty"`
	Skills    []string `json:"skills,omitempty"`
	IsActive  *bool    `json:"is_active,omitempty"`
}

// TechnicianQuery holds optional server-side list parameters.
type TechnicianQuery struct {
	Q        string // Free-text search forwarded as "q"
	Page     int    // Page number, omitted when zero
	PageSize int    // Page size, omitted when zero
}
