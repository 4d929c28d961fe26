package auth

import (
	"context"

	"github.com/small-engineer/go-web-serv/booking/internal/domain"
)

type ctxKey struct{}

// WithUser attaches the identity resolved for the current request.
func WithUser(ctx context.Context, u *domain.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

func UserFrom(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(ctxKey{}).(*domain.User)
	return u, ok && u != nil
}
