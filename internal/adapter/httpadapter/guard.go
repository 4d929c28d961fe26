package httpadapter

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/small-engineer/go-web-serv/booking/internal/domain"
	"github.com/small-engineer/go-web-serv/booking/internal/usecase/auth"
	"github.com/small-engineer/go-web-serv/booking/internal/usecase/session"
)

// Guard decides whether a request may reach a protected page. It only reads
// session state.
type Guard struct {
	sessions  *session.Manager
	loginPath string
}

func NewGuard(sm *session.Manager, loginPath string) *Guard {
	return &Guard{
		sessions:  sm,
		loginPath: loginPath,
	}
}

// Authorize returns the signed-in user, session.ErrInvalid for anonymous
// requests, or a system error.
func (g *Guard) Authorize(r *http.Request) (*domain.User, error) {
	c, err := r.Cookie(cookieName)
	if err != nil {
		return nil, session.ErrInvalid
	}
	return g.sessions.Resolve(r.Context(), c.Value)
}

func (g *Guard) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, err := g.Authorize(r)
		if errors.Is(err, session.ErrInvalid) {
			http.Redirect(w, r, g.loginPath, http.StatusFound)
			return
		}
		if err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("session lookup failed")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), u)))
	})
}
