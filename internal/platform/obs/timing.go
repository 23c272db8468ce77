package obs

import (
	"context"
	"geo-photo-game/internal/platform/metrics"
	"time"

	"github.com/rs/zerolog"
)

// Time starts timing the named operation. Call the returned func with a
// pointer to the operation's error when it finishes:
//
//	defer obs.Time(ctx, "load_document")(&err)
//
// The log line goes to the logger in ctx, which already carries req_id.
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	return func(errp *error) {
		dur := time.Since(start)
		logger := zerolog.Ctx(ctx)

		result := "ok"
		if errp != nil && *errp != nil {
			result = "error"
			logger.Warn().Str("op", name).
				Int64("dur_ms", dur.Milliseconds()).Err(*errp).Msg("store operation failed")
		} else {
			logger.Debug().Str("op", name).
				Int64("dur_ms", dur.Milliseconds()).Msg("store operation")
		}
		metrics.StoreOperationDuration.WithLabelValues(name, result).Observe(dur.Seconds())
	}
}
