package resource

import (
	"log/slog"

	"github.com/UnknownOlympus/zynor/internal/metrics"
)

// Clients bundles the per-entity clients sharing one Doer.
type Clients struct {
	Customers   *CustomerClient
	Jobs        *JobClient
	Technicians *TechnicianClient
}

// New creates all entity clients on top of doer.
func New(doer Doer, log *slog.Logger, m *metrics.Metrics) *Clients {
	return &Clients{
		Customers:   NewCustomerClient(doer, log, m),
		Jobs:        NewJobClient(doer, log, m),
		Technicians: NewTechnicianClient(doer, log, m),
	}
}
