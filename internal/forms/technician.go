package forms

import (
	"strings"

	"github.com/UnknownOlympus/zynor/internal/i18n"
	"github.com/UnknownOlympus/zynor/internal/models"
)

// TechnicianForm is the input of the technician create and edit forms.
// Skills is comma separated text.
type TechnicianForm struct {
	FirstName string `form:"first_name" validate:"required"`
	LastName  string `form:"last_name"  validate:"required"`
	Email     string `form:"email"      validate:"required,simple_email"`
	Phone     string `form:"phone"      validate:"phone_digits"`
	Skills    string `form:"skills"`
	Active    bool   `form:"is_active"`
}

// technicianInput is what gets validated: skills already split.
type technicianInput struct {
	TechnicianForm
	SkillList []string `form:"skills" validate:"min=1"`
}

var technicianMessages = messages{
	"first_name.required": "form.first_name_required",
	"last_name.required":  "form.last_name_required",
	"email.required":      "form.email_required",
	"email.simple_email":  "form.email_invalid",
	"phone.phone_digits":  "form.phone_too_short",
	"skills.min":          "form.skills_required",
}

// NewTechnicianForm prefills the form from t.
func NewTechnicianForm(t models.Technician) TechnicianForm {
	return TechnicianForm{
		FirstName: t.FirstName,
		LastName:  t.LastName,
		Email:     t.Email,
		Phone:     t.Phone,
		Skills:    t.SkillList(),
		Active:    t.Active(),
	}
}

// Payload validates the form and builds the create payload.
func (f TechnicianForm) Payload(lang i18n.Lang) (models.TechnicianCreate, error) {
	in, err := f.validate(lang)
	if err != nil {
		return models.TechnicianCreate{}, err
	}

	return models.TechnicianCreate{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Phone:     in.Phone,
		Skills:    in.SkillList,
		IsActive:  in.Active,
	}, nil
}

// UpdatePayload validates the form and builds the replacement update.
// A blank phone is left out.
func (f TechnicianForm) UpdatePayload(lang i18n.Lang) (models.TechnicianUpdate, error) {
	in, err := f.validate(lang)
	if err != nil {
		return models.TechnicianUpdate{}, err
	}

	active := in.Active
	return models.TechnicianUpdate{
		FirstName: &in.FirstName,
		LastName:  &in.LastName,
		Email:     &in.Email,
		Phone:     optional(in.Phone),
		Skills:    in.SkillList,
		IsActive:  &active,
	}, nil
}

func (f TechnicianForm) validate(lang i18n.Lang) (technicianInput, error) {
	trimAll(&f)
	in := technicianInput{TechnicianForm: f, SkillList: SplitSkills(f.Skills)}
	if err := check(lang, in, technicianMessages); err != nil {
		return technicianInput{}, err
	}
	return in, nil
}

// SplitSkills splits comma separated skills, trimming them and dropping empties.
func SplitSkills(text string) []string {
	skills := make([]string, 0)
	for _, part := range strings.Split(text, ",") {
		if s := strings.TrimSpace(part); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}
