package replicas

import "context"

type overrideKey struct{}

// UsingPrimary reports whether ctx is inside a WithPrimary scope.
func UsingPrimary(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	on, _ := ctx.Value(overrideKey{}).(bool)
	return on
}

// withOverride derives a context in which routing resolves to the primary.
// The parent is left untouched, so leaving the scope restores whatever
// state the parent had.
func withOverride(ctx context.Context) context.Context {
	return context.WithValue(ctx, overrideKey{}, true)
}
