package aggregen

import "context"

// Principal describes the authenticated caller whose identity is injected
// into audit and tenancy columns by the generated Refine methods.
type Principal struct {
	// ID is the numeric user identifier.
	ID int64
	// Name is the display name used for textual audit columns.
	Name string
	// CompanyID is the tenant identifier.
	CompanyID int64
	// CompanyCode is the tenant code.
	CompanyCode string
}

// principalKey is the key used for attaching and reading the principal.
type principalKey struct{}

// NewContext returns a new context carrying the principal.
func NewContext(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the principal stored in ctx, if any.
func FromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil
}
