package http

import (
	"context"
	"strconv"

	"github.com/OmarShamkh/vending-machine-api/internal/pkg/retry"
	"github.com/OmarShamkh/vending-machine-api/internal/vending/domain"
	"github.com/gin-gonic/gin"
)

const versionQueryKey = "version"

// writeAtVersion applies a version-checked write. A client that sent the
// version it saw gets a conflict back as is; without one the current version
// is read and the write retried while it keeps conflicting.
func writeAtVersion(
	ctx context.Context,
	policy retry.Policy,
	given *int64,
	read func(ctx context.Context) (domain.Version, error),
	apply func(ctx context.Context, expected domain.Version) error,
) error {
	if given != nil {
		return apply(ctx, domain.Version(*given))
	}

	return retry.Do(ctx, policy, domain.IsVersionConflict, func(ctx context.Context) error {
		current, err := read(ctx)
		if err != nil {
			return err
		}

		return apply(ctx, current)
	})
}

func versionFromQuery(c *gin.Context) (*int64, bool) {
	raw, ok := c.GetQuery(versionQueryKey)
	if !ok {
		return nil, true
	}

	version, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || version < int64(domain.InitialVersion) {
		return nil, false
	}

	return &version, true
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(idParamKey), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}

	return id, true
}
