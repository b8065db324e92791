package cli

import (
	"context"
	"strconv"

	"github.com/UnknownOlympus/zynor/internal/forms"
	"github.com/UnknownOlympus/zynor/internal/listing"
	"github.com/UnknownOlympus/zynor/internal/models"
)

const entityJob = "job"

var jobFlags = map[string]string{
	"title":       "job title",
	"description": "free text description",
	"status":      "status label, NEW when blank",
	"start":       "scheduled start, RFC 3339",
	"end":         "scheduled end, RFC 3339",
	"customer":    "customer id",
	"technician":  "technician id",
}

func (a *App) jobs(ctx context.Context, args []string) error {
	return a.dispatch(ctx, "jobs", args, entityCommands{
		list:   a.listJobs,
		get:    a.getJob,
		create: a.createJob,
		update: a.updateJob,
		remove: a.deleteJob,
	})
}

func jobFields(form *forms.JobForm) map[string]*string {
	return map[string]*string{
		"title":       &form.Title,
		"description": &form.Description,
		"status":      &form.Status,
		"start":       &form.ScheduledStartAt,
		"end":         &form.ScheduledEndAt,
		"customer":    &form.CustomerID,
		"technician":  &form.TechnicianID,
	}
}

func (a *App) listJobs(ctx context.Context, args []string) error {
	fs := a.newFlagSet("jobs list")
	opts := addListFlags(fs)
	if _, err := parse(fs, args); err != nil {
		return err
	}

	items, err := a.Clients.Jobs.List(ctx)
	if err != nil {
		return err
	}

	schema := listing.JobSchema()
	return showList(a, listing.NewView(schema, items), schema, opts, nil)
}

func (a *App) getJob(ctx context.Context, args []string) error {
	fs := a.newFlagSet("jobs get")
	raw, err := parse(fs, args)
	if err != nil {
		return err
	}
	id, err := a.parseID(raw)
	if err != nil {
		return err
	}

	job, err := a.fetchJob(ctx, id)
	if err != nil {
		return err
	}
	return printRecord(a.Stdout, listing.JobSchema(), *job)
}

func (a *App) createJob(ctx context.Context, args []string) error {
	fs := a.newFlagSet("jobs create")
	text := newTextFlags(fs, jobFlags)
	if _, err := parse(fs, args); err != nil {
		return err
	}

	var form forms.JobForm
	text.apply(jobFields(&form))

	payload, err := form.Payload(a.Lang)
	if err != nil {
		return err
	}

	created, err := a.Clients.Jobs.Create(ctx, payload)
	if err != nil {
		return err
	}

	id := ""
	if created != nil {
		id = strconv.FormatInt(created.ID, 10)
	}
	a.say("cli.created", map[string]any{"entity": entityJob, "id": id})
	return nil
}

func (a *App) updateJob(ctx context.Context, args []string) error {
	fs := a.newFlagSet("jobs update")
	text := newTextFlags(fs, jobFlags)
	raw, err := parse(fs, args)
	if err != nil {
		return err
	}
	id, err := a.parseID(raw)
	if err != nil {
		return err
	}

	existing, err := a.fetchJob(ctx, id)
	if err != nil {
		return err
	}

	form := forms.NewJobForm(*existing)
	text.apply(jobFields(&form))

	payload, err := form.UpdatePayload(a.Lang)
	if err != nil {
		return err
	}

	if _, err = a.Clients.Jobs.Update(ctx, id, payload); err != nil {
		return err
	}

	a.say("cli.updated", map[string]any{"entity": entityJob, "id": id})
	return nil
}

func (a *App) deleteJob(ctx context.Context, args []string) error {
	fs := a.newFlagSet("jobs delete")
	yes := addYesFlag(fs)
	raw, err := parse(fs, args)
	if err != nil {
		return err
	}
	id, err := a.parseID(raw)
	if err != nil {
		return err
	}

	if !a.confirmDelete(*yes, entityJob, raw) {
		return nil
	}

	if err = a.Clients.Jobs.Delete(ctx, id); err != nil {
		return err
	}

	a.say("cli.deleted", map[string]any{"entity": entityJob, "id": id})
	return nil
}

func (a *App) fetchJob(ctx context.Context, id int64) (*models.Job, error) {
	job, err := a.Clients.Jobs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, errNotFound
	}
	return job, nil
}
