package resource

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/UnknownOlympus/zynor/internal/metrics"
	"github.com/UnknownOlympus/zynor/internal/models"
)

// JobClient manages jobs.
type JobClient struct {
	res *Resource[models.Job]
}

// NewJobClient creates a JobClient.
func NewJobClient(doer Doer, log *slog.Logger, m *metrics.Metrics) *JobClient {
	return &JobClient{res: NewResource[models.Job](doer, log, m, "jobs")}
}

func (c *JobClient) List(ctx context.Context) ([]models.Job, error) {
	return c.res.List(ctx, nil)
}

func (c *JobClient) Get(ctx context.Context, id int64) (*models.Job, error) {
	return c.res.Get(ctx, strconv.FormatInt(id, 10))
}

// Create posts a new job. A blank status is sent as DefaultJobStatus.
func (c *JobClient) Create(ctx context.Context, payload models.JobCreate) (*models.Job, error) {
	if payload.Status == "" {
		payload.Status = models.DefaultJobStatus
	}
	return c.res.Create(ctx, payload)
}

func (c *JobClient) Update(ctx context.Context, id int64, payload models.JobUpdate) (*models.Job, error) {
	return c.res.Update(ctx, strconv.FormatInt(id, 10), payload)
}

func (c *JobClient) Delete(ctx context.Context, id int64) error {
	return c.res.Delete(ctx, strconv.FormatInt(id, 10))
}
