package vanilla

import "context"

type confirmKey struct{}

// WithConfirmation attaches the user's answer to a confirmation prompt.
func WithConfirmation(ctx context.Context, ok bool) context.Context {
	return context.WithValue(ctx, confirmKey{}, ok)
}

// Confirmed reports the answer attached by WithConfirmation, or false.
func Confirmed(ctx context.Context) bool {
	ok, _ := ctx.Value(confirmKey{}).(bool)
	return ok
}
