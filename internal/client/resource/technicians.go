package resource

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/UnknownOlympus/zynor/internal/metrics"
	"github.com/UnknownOlympus/zynor/internal/models"
)

// TechnicianClient manages technicians.
type TechnicianClient struct {
	res *Resource[models.Technician]
}

// NewTechnicianClient creates a TechnicianClient.
func NewTechnicianClient(doer Doer, log *slog.Logger, m *metrics.Metrics) *TechnicianClient {
	return &TechnicianClient{res: NewResource[models.Technician](doer, log, m, "technicians")}
}

// List fetches technicians. Zero fields of query are not sent.
func (c *TechnicianClient) List(ctx context.Context, query models.TechnicianQuery) ([]models.Technician, error) {
	return c.res.List(ctx, technicianParams(query))
}

func (c *TechnicianClient) Get(ctx context.Context, id models.TechnicianID) (*models.Technician, error) {
	return c.res.Get(ctx, id.String())
}

// Create posts a new technician.
func (c *TechnicianClient) Create(ctx context.Context, payload models.TechnicianCreate) (*models.Technician, error) {
	return c.res.Create(ctx, payload)
}

func (c *TechnicianClient) Update(
	ctx context.Context,
	id models.TechnicianID,
	payload models.TechnicianUpdate,
) (*models.Technician, error) {
	return c.res.Update(ctx, id.String(), payload)
}

func (c *TechnicianClient) Delete(ctx context.Context, id models.TechnicianID) error {
	return c.res.Delete(ctx, id.String())
}

func technicianParams(query models.TechnicianQuery) url.Values {
	params := url.Values{}
	if query.Q != "" {
		params.Set("q", query.Q)
	}
	if query.Page > 0 {
		params.Set("page", strconv.Itoa(query.Page))
	}
	if query.PageSize > 0 {
		params.Set("page_size", strconv.Itoa(query.PageSize))
	}
	return params
}
