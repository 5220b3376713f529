// AngelaMos | 2026
// context.go

package board

import (
	"context"
)

type callerKey struct{}

// WithCaller stores the resolved caller for downstream handlers.
func WithCaller(ctx context.Context, caller Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// CallerFrom returns the caller stored by Require, or Anonymous.
func CallerFrom(ctx context.Context) Caller {
	if caller, ok := ctx.Value(callerKey{}).(Caller); ok {
		return caller
	}
	return Anonymous
}
