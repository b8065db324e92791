package listing

import (
	"strconv"

	"github.com/UnknownOlympus/zynor/internal/models"
)

// CustomerSchema is the column layout of the customer listing.
func CustomerSchema() Schema[models.Customer] {
	return Schema[models.Customer]{
		Columns: []Column[models.Customer]{
			{Key: "id", Header: "ID", Value: func(c models.Customer) string { return strconv.FormatInt(c.ID, 10) }},
			{Key: "name", Header: "Name", Value: func(c models.Customer) string { return c.Name }},
			{Key: "email", Header: "Email", Value: func(c models.Customer) string { return text(c.Email) }},
			{Key: "phone", Header: "Phone", Value: func(c models.Customer) string { return text(c.Phone) }},
			{Key: "address", Header: "Address", Value: func(c models.Customer) string { return text(c.Address) }},
		},
		Search: func(c models.Customer) []string { return []string{c.Name, text(c.Email), text(c.Phone)} },
		ID:     func(c models.Customer) string { return strconv.FormatInt(c.ID, 10) },
	}
}

// JobSchema is the column layout of the job listing.
func JobSchema() Schema[models.Job] {
	return Schema[models.Job]{
		Columns: []Column[models.Job]{
			{Key: "id", Header: "ID", Value: func(j models.Job) string { return strconv.FormatInt(j.ID, 10) }},
			{Key: "title", Header: "Title", Value: func(j models.Job) string { return j.Title }},
			{Key: "status", Header: "Status", Value: func(j models.Job) string { return j.Status }},
			{Key: "customer", Header: "Customer", Value: func(j models.Job) string { return strconv.FormatInt(j.CustomerID, 10) }},
			{Key: "technician", Header: "Technician", Value: func(j models.Job) string { return text(j.TechnicianID) }},
			{Key: "start", Header: "Scheduled start", Value: func(j models.Job) string { return stamp(j.ScheduledStartAt) }},
		},
		Search: func(j models.Job) []string { return []string{j.Title, text(j.Description), j.Status} },
		ID:     func(j models.Job) string { return strconv.FormatInt(j.ID, 10) },
	}
}

func text(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// stamp renders a timestamp so that lexical order is chronological.
func stamp(ts models.Timestamp) string {
	if !ts.Valid() {
		return ""
	}
	return ts.UTC().Format("2006-01-02 15:04")
}
