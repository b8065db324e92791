package cli

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/UnknownOlympus/zynor/internal/forms"
	"github.com/UnknownOlympus/zynor/internal/listing"
	"github.com/UnknownOlympus/zynor/internal/models"
	"github.com/UnknownOlympus/zynor/internal/report"
)

const entityTechnician = "technician"

var technicianFlags = map[string]string{
	"first-name": "given name",
	"last-name":  "family name",
	"email":      "email address",
	"phone":      "phone number",
	"skills":     "comma separated skills",
}

func (a *App) technicians(ctx context.Context, args []string) error {
	return a.dispatch(ctx, "technicians", args, entityCommands{
		list:   a.listTechnicians,
		get:    a.getTechnician,
		create: a.createTechnician,
		update: a.updateTechnician,
		remove: a.deleteTechnician,
	})
}

func technicianFields(form *forms.TechnicianForm) map[string]*string {
	return map[string]*string{
		"first-name": &form.FirstName,
		"last-name":  &form.LastName,
		"email":      &form.Email,
		"phone":      &form.Phone,
		"skills":     &form.Skills,
	}
}

func technicianWorkbook(rows []models.Technician) (*bytes.Buffer, error) {
	return report.GenerateTechnicianReport(report.RowsFromTechnicians(rows))
}

func (a *App) listTechnicians(ctx context.Context, args []string) error {
	fs := a.newFlagSet("technicians list")
	opts := addListFlags(fs)
	skill := fs.String("skill", "", "only technicians with this skill")
	status := fs.String("status", "", "active or inactive, empty or all for every technician")
	skills := fs.Bool("skills", false, "print the known skills and exit")
	if _, err := parse(fs, args); err != nil {
		return err
	}

	if *status == "all" {
		*status = string(listing.StatusAll)
	}
	statusFilter, err := listing.ParseStatusFilter(*status)
	if err != nil {
		return usagef("%v", err)
	}

	items, err := a.Clients.Technicians.List(ctx, models.TechnicianQuery{})
	if err != nil {
		return err
	}

	list := listing.NewTechnicianList(items)
	if *skills {
		options := list.SkillOptions()
		if len(options) == 0 {
			a.say("cli.no_records", nil)
			return nil
		}
		for _, s := range options {
			fmt.Fprintln(a.Stdout, s)
		}
		return nil
	}

	list.SetSkill(strings.TrimSpace(*skill))
	list.SetStatus(statusFilter)

	return showList(a, list.View, listing.TechnicianSchema(), opts, technicianWorkbook)
}

func (a *App) getTechnician(ctx context.Context, args []string) error {
	fs := a.newFlagSet("technicians get")
	raw, err := parse(fs, args)
	if err != nil {
		return err
	}

	tech, err := a.fetchTechnician(ctx, raw)
	if err != nil {
		return err
	}
	return printRecord(a.Stdout, listing.TechnicianSchema(), *tech)
}

func (a *App) createTechnician(ctx context.Context, args []string) error {
	fs := a.newFlagSet("technicians create")
	text := newTextFlags(fs, technicianFlags)
	active := fs.Bool("active", true, "whether the technician is active")
	if _, err := parse(fs, args); err != nil {
		return err
	}

	form := forms.TechnicianForm{Active: *active}
	text.apply(technicianFields(&form))

	payload, err := form.Payload(a.Lang)
	if err != nil {
		return err
	}

	created, err := a.Clients.Technicians.Create(ctx, payload)
	if err != nil {
		return err
	}

	id := ""
	if created != nil {
		id = created.ID.String()
	}
	a.say("cli.created", map[string]any{"entity": entityTechnician, "id": id})
	return nil
}

func (a *App) updateTechnician(ctx context.Context, args []string) error {
	fs := a.newFlagSet("technicians update")
	text := newTextFlags(fs, technicianFlags)
	active := fs.Bool("active", true, "whether the technician is active")
	raw, err := parse(fs, args)
	if err != nil {
		return err
	}

	existing, err := a.fetchTechnician(ctx, raw)
	if err != nil {
		return err
	}

	form := forms.NewTechnicianForm(*existing)
	text.apply(technicianFields(&form))
	if isSet(fs, "active") {
		form.Active = *active
	}

	payload, err := form.UpdatePayload(a.Lang)
	if err != nil {
		return err
	}

	if _, err = a.Clients.Technicians.Update(ctx, existing.ID, payload); err != nil {
		return err
	}

	a.say("cli.updated", map[string]any{"entity": entityTechnician, "id": existing.ID})
	return nil
}

func (a *App) deleteTechnician(ctx context.Context, args []string) error {
	fs := a.newFlagSet("technicians delete")
	yes := addYesFlag(fs)
	raw, err := parse(fs, args)
	if err != nil {
		return err
	}
	if strings.TrimSpace(raw) == "" {
		return usagef("%s", a.Lang.T("cli.missing_id"))
	}

	if !a.confirmDelete(*yes, entityTechnician, raw) {
		return nil
	}

	if err = a.Clients.Technicians.Delete(ctx, models.TechnicianID(raw)); err != nil {
		return err
	}

	a.say("cli.deleted", map[string]any{"entity": entityTechnician, "id": raw})
	return nil
}

func (a *App) fetchTechnician(ctx context.Context, raw string) (*models.Technician, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, usagef("%s", a.Lang.T("cli.missing_id"))
	}

	tech, err := a.Clients.Technicians.Get(ctx, models.TechnicianID(raw))
	if err != nil {
		return nil, err
	}
	if tech == nil {
		return nil, errNotFound
	}
	return tech, nil
}
