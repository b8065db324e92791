package resource

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/UnknownOlympus/zynor/internal/metrics"
	"github.com/UnknownOlympus/zynor/internal/models"
)

// CustomerClient manages customers.
type CustomerClient struct {
	res *Resource[models.Customer]
}

// NewCustomerClient creates a CustomerClient.
func NewCustomerClient(doer Doer, log *slog.Logger, m *metrics.Metrics) *CustomerClient {
	return &CustomerClient{res: NewResource[models.Customer](doer, log, m, "customers")}
}

func (c *CustomerClient) List(ctx context.Context) ([]models.Customer, error) {
	return c.res.List(ctx, nil)
}

func (c *CustomerClient) Get(ctx context.Context, id int64) (*models.Customer, error) {
	return c.res.Get(ctx, strconv.FormatInt(id, 10))
}

func (c *CustomerClient) Create(ctx context.Context, payload models.CustomerCreate) (*models.Customer, error) {
	return c.res.Create(ctx, payload)
}

func (c *CustomerClient) Update(ctx context.Context, id int64, payload models.CustomerUpdate) (*models.Customer, error) {
	return c.res.Update(ctx, strconv.FormatInt(id, 10), payload)
}

func (c *CustomerClient) Delete(ctx context.Context, id int64) error {
	return c.res.Delete(ctx, strconv.FormatInt(id, 10))
}
