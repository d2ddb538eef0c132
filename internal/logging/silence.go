package logging

import "context"

type suppressionKey struct{}

// ContextWithSuppression returns a context under which channel writes at or
// above min are dropped. The scope is carried by the context value itself, so
// it ends on every exit path without explicit release. Used by callers that
// probe for expected failures and do not want the resulting errors reported.
func ContextWithSuppression(ctx context.Context, min Level) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, suppressionKey{}, min)
}

// SuppressionFromContext reports the suppression threshold attached to ctx,
// if any.
func SuppressionFromContext(ctx context.Context) (Level, bool) {
	if ctx == nil {
		return 0, false
	}
	min, ok := ctx.Value(suppressionKey{}).(Level)
	return min, ok
}

// suppressed reports whether a record at level must be dropped under ctx.
func suppressed(ctx context.Context, level Level) bool {
	min, ok := SuppressionFromContext(ctx)
	return ok && level >= min
}
