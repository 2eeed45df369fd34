package repositories

import (
	"context"

	"github.com/SscSPs/ledger_desk/internal/core/domain"
	"golang.org/x/oauth2"
)

// Caller carries the credentials a repository call is made with.
type Caller struct {
	// Tokens supplies the bearer token of the signed-in user.
	Tokens oauth2.TokenSource
	// BranchID is the active branch scope, empty when none is selected.
	BranchID domain.ID
	// OnUnauthorized runs when the backend rejects the token.
	OnUnauthorized func(ctx context.Context)
}

type callerKey struct{}

// WithCaller attaches c to ctx.
func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

// WithoutBranch keeps the caller on ctx but drops its branch scope.
func WithoutBranch(ctx context.Context) context.Context {
	c, ok := CallerFromCtx(ctx)
	if !ok || c.BranchID.IsZero() {
		return ctx
	}
	c.BranchID = ""
	return WithCaller(ctx, c)
}

// CallerFromCtx returns the caller attached to ctx.
func CallerFromCtx(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(callerKey{}).(Caller)
	return c, ok
}
