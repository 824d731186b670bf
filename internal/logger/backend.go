package logger

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// LogRequest logs an outgoing backend request.
func LogRequest(ctx context.Context, method, path string, fields map[string]interface{}) {
	ev := zerolog.Ctx(ctx).Debug().Str("method", method).Str("path", path)
	if len(fields) > 0 {
		ev = ev.Fields(fields)
	}
	ev.Msg("milk-api request")
}

// LogResponse logs a backend response. apiStatus is the envelope's status field.
func LogResponse(ctx context.Context, path string, httpStatus, apiStatus int, duration time.Duration) {
	zerolog.Ctx(ctx).Debug().
		Str("path", path).
		Int("http_status", httpStatus).
		Int("api_status", apiStatus).
		Dur("duration", duration).
		Msg("milk-api response")
}

// LogError logs a failed backend operation.
func LogError(ctx context.Context, operation string, err error) {
	zerolog.Ctx(ctx).Error().Err(err).Str("operation", operation).Msg("milk-api error")
}
