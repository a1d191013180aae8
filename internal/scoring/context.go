package scoring

import (
	"context"
	"errors"
)

var (
	errNoOpportunitySource = errors.New("opportunity database is not configured")
	errNoHistory           = errors.New("prediction history is not configured")
)

type requestIDKey struct{}

// WithRequestID tags ctx so that scoring logs can be correlated with the
// HTTP request or job that caused them.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
