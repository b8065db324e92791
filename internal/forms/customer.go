package forms

import (
	"github.com/UnknownOlympus/zynor/internal/i18n"
	"github.com/UnknownOlympus/zynor/internal/models"
)

// CustomerForm is the input of the new customer form.
type CustomerForm struct {
	Name    string `form:"name"    validate:"required"`
	Email   string `form:"email"   validate:"omitempty,simple_email"`
	Phone   string `form:"phone"`
	Address string `form:"address"`
}

var customerMessages = messages{
	"name.required":      "form.name_required",
	"email.simple_email": "form.email_invalid",
}

// Payload validates the form and builds the create payload. Blank
// optional fields are sent as null.
func (f CustomerForm) Payload(lang i18n.Lang) (models.CustomerCreate, error) {
	trimAll(&f)
	if err := check(lang, f, customerMessages); err != nil {
		return models.CustomerCreate{}, err
	}

	return models.CustomerCreate{
		Name:    f.Name,
		Email:   optional(f.Email),
		Phone:   optional(f.Phone),
		Address: optional(f.Address),
	}, nil
}

// CustomerEditForm is the input of the edit customer form. It always
// sends every field, clearing blank optionals.
type CustomerEditForm struct {
	Name    string `form:"name"    validate:"required"`
	Email   string `form:"email"   validate:"omitempty,simple_email"`
	Phone   string `form:"phone"`
	Address string `form:"address"`
}

var customerEditMessages = messages{
	"name.required":      "form.name_empty",
	"email.simple_email": "form.email_invalid",
}

// NewCustomerEditForm prefills the form from c.
func NewCustomerEditForm(c models.Customer) CustomerEditForm {
	return CustomerEditForm{
		Name:    c.Name,
		Email:   deref(c.Email),
		Phone:   deref(c.Phone),
		Address: deref(c.Address),
	}
}

// Payload validates the form and builds the full replacement update.
func (f CustomerEditForm) Payload(lang i18n.Lang) (models.CustomerUpdate, error) {
	trimAll(&f)
	if err := check(lang, f, customerEditMessages); err != nil {
		return models.CustomerUpdate{}, err
	}

	return models.CustomerUpdate{
		Name:    &f.Name,
		Email:   models.SetOrNull(optional(f.Email)),
		Phone:   models.SetOrNull(optional(f.Phone)),
		Address: models.SetOrNull(optional(f.Address)),
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
