package cli

import (
	"context"
	"strconv"

	"github.com/UnknownOlympus/zynor/internal/forms"
	"github.com/UnknownOlympus/zynor/internal/listing"
	"github.com/UnknownOlympus/zynor/internal/models"
)

const entityCustomer = "customer"

var customerFlags = map[string]string{
	"name":    "customer name",
	"email":   "email address",
	"phone":   "phone number",
	"address": "postal address",
}

func (a *App) customers(ctx context.Context, args []string) error {
	return a.dispatch(ctx, "customers", args, entityCommands{
		list:   a.listCustomers,
		get:    a.getCustomer,
		create: a.createCustomer,
		update: a.updateCustomer,
		remove: a.deleteCustomer,
	})
}

func (a *App) listCustomers(ctx context.Context, args []string) error {
	fs := a.newFlagSet("customers list")
	opts := addListFlags(fs)
	if _, err := parse(fs, args); err != nil {
		return err
	}

	items, err := a.Clients.Customers.List(ctx)
	if err != nil {
		return err
	}

	schema := listing.CustomerSchema()
	return showList(a, listing.NewView(schema, items), schema, opts, nil)
}

func (a *App) getCustomer(ctx context.Context, args []string) error {
	fs := a.newFlagSet("customers get")
	raw, err := parse(fs, args)
	if err != nil {
		return err
	}
	id, err := a.parseID(raw)
	if err != nil {
		return err
	}

	customer, err := a.fetchCustomer(ctx, id)
	if err != nil {
		return err
	}
	return printRecord(a.Stdout, listing.CustomerSchema(), *customer)
}

func (a *App) createCustomer(ctx context.Context, args []string) error {
	fs := a.newFlagSet("customers create")
	text := newTextFlags(fs, customerFlags)
	if _, err := parse(fs, args); err != nil {
		return err
	}

	var form forms.CustomerForm
	text.apply(map[string]*string{
		"name":    &form.Name,
		"email":   &form.Email,
		"phone":   &form.Phone,
		"address": &form.Address,
	})

	payload, err := form.Payload(a.Lang)
	if err != nil {
		return err
	}

	created, err := a.Clients.Customers.Create(ctx, payload)
	if err != nil {
		return err
	}

	a.say("cli.created", map[string]any{"entity": entityCustomer, "id": customerID(created)})
	return nil
}

func (a *App) updateCustomer(ctx context.Context, args []string) error {
	fs := a.newFlagSet("customers update")
	text := newTextFlags(fs, customerFlags)
	raw, err := parse(fs, args)
	if err != nil {
		return err
	}
	id, err := a.parseID(raw)
	if err != nil {
		return err
	}

	existing, err := a.fetchCustomer(ctx, id)
	if err != nil {
		return err
	}

	form := forms.NewCustomerEditForm(*existing)
	text.apply(map[string]*string{
		"name":    &form.Name,
		"email":   &form.Email,
		"phone":   &form.Phone,
		"address": &form.Address,
	})

	payload, err := form.Payload(a.Lang)
	if err != nil {
		return err
	}

	if _, err = a.Clients.Customers.Update(ctx, id, payload); err != nil {
		return err
	}

	a.say("cli.updated", map[string]any{"entity": entityCustomer, "id": id})
	return nil
}

func (a *App) deleteCustomer(ctx context.Context, args []string) error {
	fs := a.newFlagSet("customers delete")
	yes := addYesFlag(fs)
	raw, err := parse(fs, args)
	if err != nil {
		return err
	}
	id, err := a.parseID(raw)
	if err != nil {
		return err
	}

	if !a.confirmDelete(*yes, entityCustomer, raw) {
		return nil
	}

	if err = a.Clients.Customers.Delete(ctx, id); err != nil {
		return err
	}

	a.say("cli.deleted", map[string]any{"entity": entityCustomer, "id": id})
	return nil
}

func (a *App) fetchCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	customer, err := a.Clients.Customers.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, errNotFound
	}
	return customer, nil
}

func customerID(c *models.Customer) string {
	if c == nil {
		return ""
	}
	return strconv.FormatInt(c.ID, 10)
}
