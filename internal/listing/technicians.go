package listing

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/UnknownOlympus/zynor/internal/models"
)

// CSVFilename is the default name of the technician CSV export.
const CSVFilename = "technicians.csv"

// Sort keys of the technician listing.
const (
	SortName   = "name"
	SortEmail  = "email"
	SortPhone  = "phone"
	SortSkill  = "skill"
	SortActive = "active"
)

// StatusFilter limits the listing to active or inactive technicians.
type StatusFilter string

const (
	StatusAll      StatusFilter = ""
	StatusActive   StatusFilter = "active"
	StatusInactive StatusFilter = "inactive"
)

// ParseStatusFilter accepts "", "active" and "inactive".
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch f := StatusFilter(s); f {
	case StatusAll, StatusActive, StatusInactive:
		return f, nil
	default:
		return StatusAll, fmt.Errorf("invalid status filter %q, expected active or inactive", s)
	}
}

// TechnicianSchema is the column layout of the technician listing.
func TechnicianSchema() Schema[models.Technician] {
	return Schema[models.Technician]{
		Columns: []Column[models.Technician]{
			{Key: SortName, Header: "Name", Value: models.Technician.FullName},
			{Key: SortEmail, Header: "Email", Value: func(t models.Technician) string { return t.Email }},
			{Key: SortPhone, Header: "Phone", Value: func(t models.Technician) string { return t.Phone }},
			{Key: SortSkill, Header: "Skill", Value: models.Technician.SkillList},
			{
				Key:    SortActive,
				Header: "Active",
				Value:  func(t models.Technician) string { return strconv.FormatBool(t.Active()) },
				Export: func(t models.Technician) string {
					if t.Active() {
						return "Active"
					}
					return "Inactive"
				},
			},
		},
		Search: func(t models.Technician) []string { return []string{t.FullName(), t.Email, t.Phone} },
		ID:     func(t models.Technician) string { return t.ID.String() },
	}
}

// TechnicianList is the technician listing with its skill and status filters.
type TechnicianList struct {
	*View[models.Technician]

	skill  string
	status StatusFilter
}

// NewTechnicianList creates a TechnicianList over items.
func NewTechnicianList(items []models.Technician) *TechnicianList {
	return &TechnicianList{View: NewView(TechnicianSchema(), items)}
}

// SetSkill keeps only technicians having skill. An empty skill clears the filter.
func (l *TechnicianList) SetSkill(skill string) {
	l.skill = skill
	if skill == "" {
		l.SetFilter("skill", nil)
		return
	}
	l.SetFilter("skill", func(t models.Technician) bool { return t.HasSkill(skill) })
}

// Skill returns the skill filter.
func (l *TechnicianList) Skill() string {
	return l.skill
}

// SetStatus filters by activity. A missing is_active counts as active.
func (l *TechnicianList) SetStatus(status StatusFilter) {
	l.status = status
	l.SetFilter("status", l.statusFilter())
}

// Status returns the status filter.
func (l *TechnicianList) Status() StatusFilter {
	return l.status
}

// ClearFilters drops the search term and both filters. Sort and page are kept.
func (l *TechnicianList) ClearFilters() {
	l.SetSearch("")
	l.SetSkill("")
	l.SetStatus(StatusAll)
}

// SkillOptions returns the distinct non-empty skills of the source collection, sorted.
func (l *TechnicianList) SkillOptions() []string {
	var skills []string
	for _, t := range l.Items() {
		for _, s := range t.Skills {
			if s != "" && !slices.Contains(skills, s) {
				skills = append(skills, s)
			}
		}
	}
	slices.Sort(skills)
	return skills
}

func (l *TechnicianList) statusFilter() func(models.Technician) bool {
	switch l.status {
	case StatusActive:
		return models.Technician.Active
	case StatusInactive:
		return func(t models.Technician) bool { return !t.Active() }
	default:
		return nil
	}
}
