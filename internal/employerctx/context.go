// Package employerctx carries the authenticated employer through a request.
// Authentication itself is handled upstream; this core only consumes the
// identity it establishes.
package employerctx

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type contextKey struct{}

func WithEmployerID(ctx context.Context, id snowflake.ID) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

func EmployerIDFromContext(ctx context.Context) (snowflake.ID, bool) {
	id, ok := ctx.Value(contextKey{}).(snowflake.ID)
	return id, ok
}
