package forms

import (
	"strconv"

	"github.com/UnknownOlympus/zynor/internal/i18n"
	"github.com/UnknownOlympus/zynor/internal/models"
)

// JobForm is the input of the job create and edit forms.
// Scheduled times accept RFC 3339 and naive ISO-8601 values.
type JobForm struct {
	Title            string `form:"title"              validate:"required"`
	Description      string `form:"description"`
	Status           string `form:"status"`
	ScheduledStartAt string `form:"scheduled_start_at" validate:"omitempty,timestamp"`
	ScheduledEndAt   string `form:"scheduled_end_at"   validate:"omitempty,timestamp"`
	CustomerID       string `form:"customer_id"        validate:"required,positive_id"`
	TechnicianID     string `form:"technician_id"`
}

var jobMessages = messages{
	"title.required":               "form.title_required",
	"customer_id.required":         "form.customer_id_required",
	"customer_id.positive_id":      "form.customer_id_positive",
	"scheduled_start_at.timestamp": "form.date_invalid",
	"scheduled_end_at.timestamp":   "form.date_invalid",
}

// NewJobForm prefills the form from j.
func NewJobForm(j models.Job) JobForm {
	form := JobForm{
		Title:       j.Title,
		Description: deref(j.Description),
		Status:      j.Status,
		CustomerID:  strconv.FormatInt(j.CustomerID, 10),
	}
	if j.ScheduledStartAt.Valid() {
		form.ScheduledStartAt = j.ScheduledStartAt.Format(timeLayout)
	}
	if j.ScheduledEndAt.Valid() {
		form.ScheduledEndAt = j.ScheduledEndAt.Format(timeLayout)
	}
	if j.TechnicianID != nil {
		form.TechnicianID = *j.TechnicianID
	}
	return form
}

const timeLayout = "2006-01-02T15:04:05Z07:00"

// Payload validates the form and builds the create payload.
func (f JobForm) Payload(lang i18n.Lang) (models.JobCreate, error) {
	trimAll(&f)
	if err := check(lang, f, jobMessages); err != nil {
		return models.JobCreate{}, err
	}

	customerID, _ := strconv.ParseInt(f.CustomerID, 10, 64)

	return models.JobCreate{
		Title:            f.Title,
		Description:      optional(f.Description),
		Status:           f.status(),
		ScheduledStartAt: timestamp(f.ScheduledStartAt),
		ScheduledEndAt:   timestamp(f.ScheduledEndAt),
		CustomerID:       customerID,
		TechnicianID:     optional(f.TechnicianID),
	}, nil
}

// UpdatePayload validates the form and builds the full replacement update.
func (f JobForm) UpdatePayload(lang i18n.Lang) (models.JobUpdate, error) {
	create, err := f.Payload(lang)
	if err != nil {
		return models.JobUpdate{}, err
	}

	return models.JobUpdate{
		Title:            &create.Title,
		Description:      models.SetOrNull(create.Description),
		Status:           &create.Status,
		ScheduledStartAt: timestampPatch(create.ScheduledStartAt),
		ScheduledEndAt:   timestampPatch(create.ScheduledEndAt),
		CustomerID:       &create.CustomerID,
		TechnicianID:     models.SetOrNull(create.TechnicianID),
	}, nil
}

func timestampPatch(ts models.Timestamp) models.Patch[models.Timestamp] {
	if !ts.Valid() {
		return models.Null[models.Timestamp]()
	}
	return models.Set(ts)
}

func (f JobForm) status() string {
	if f.Status == "" {
		return models.DefaultJobStatus
	}
	return f.Status
}

func timestamp(s string) models.Timestamp {
	if s == "" {
		return models.Timestamp{}
	}
	ts, _ := models.ParseTimestamp(s)
	return ts
}
