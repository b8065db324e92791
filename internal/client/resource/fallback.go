package resource

import (
	"context"

	"github.com/UnknownOlympus/zynor/internal/client/api"
)

// WithPathFallback runs call on primary. When that fails with a 404 and a
// fallback path is given, call runs exactly once more on fallback and its
// outcome is returned as is. Any other error is returned without a retry.
func WithPathFallback[R any](
	ctx context.Context,
	primary, fallback string,
	call func(ctx context.Context, path string) (R, error),
) (R, error) {
	result, err := call(ctx, primary)
	if err == nil || fallback == "" || !api.IsNotFound(err) {
		return result, err
	}

	return call(ctx, fallback)
}
