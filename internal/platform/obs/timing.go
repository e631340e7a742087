package obs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

type ctxKey string

const requestIDKey ctxKey = "req_id"

// WithRequestID stores the request id on the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the request id carried by the context, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// Time reports the duration of an operation when the returned func runs,
// typically via defer. Pass the address of the named error return to have
// failures logged with the timing.
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()
	reqID := RequestID(ctx)

	return func(errp *error) {
		ev := log.Debug().Str("req_id", reqID).Str("op", name).Dur("dur", time.Since(start))
		if errp != nil && *errp != nil {
			ev = ev.Err(*errp)
		}
		ev.Msg("op timed")
	}
}
