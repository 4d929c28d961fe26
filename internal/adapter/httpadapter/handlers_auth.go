package httpadapter

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/hlog"

	"github.com/small-engineer/go-web-serv/booking/internal/usecase/auth"
	"github.com/small-engineer/go-web-serv/booking/internal/usecase/session"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "home.html", nil)
}

func (s *Server) handleBookNow(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "signinup.html", nil)
}

// handleLoginPage sends signed-in visitors straight to the hotel page.
func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	_, err := s.guard.Authorize(r)
	if err == nil {
		http.Redirect(w, r, hotelPath, http.StatusFound)
		return
	}
	if !errors.Is(err, session.ErrInvalid) {
		hlog.FromRequest(r).Error().Err(err).Msg("session lookup failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.render(w, r, "signinup.html", nil)
}

func credentials(r *http.Request) (string, string, bool) {
	err := r.ParseForm()
	if err != nil {
		return "", "", false
	}
	email := strings.TrimSpace(r.PostForm.Get("username"))
	pass := r.PostForm.Get("password")
	if email == "" || pass == "" {
		return "", "", false
	}
	return email, pass, true
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	email, pass, ok := credentials(r)
	if !ok {
		http.Redirect(w, r, loginPath, http.StatusFound)
		return
	}

	u, err := s.auth.Login(r.Context(), email, pass)
	if err != nil {
		if errors.Is(err, auth.ErrRejected) {
			http.Redirect(w, r, loginPath, http.StatusFound)
			return
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if !s.startSession(w, r, u) {
		return
	}
	http.Redirect(w, r, hotelPath, http.StatusFound)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	email, pass, ok := credentials(r)
	if !ok {
		http.Redirect(w, r, loginPath, http.StatusFound)
		return
	}

	u, err := s.auth.Register(r.Context(), email, pass)
	if err != nil {
		if errors.Is(err, auth.ErrConflict) {
			http.Redirect(w, r, loginPath, http.StatusFound)
			return
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	// a fresh account is signed in without a separate login
	if !s.startSession(w, r, u) {
		return
	}
	http.Redirect(w, r, hotelPath, http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(cookieName)
	if err == nil {
		err = s.sessions.Revoke(r.Context(), c.Value)
		if err != nil {
			// the cookie is still cleared below; the token dies at its expiry
			hlog.FromRequest(r).Error().Err(err).Msg("revoke session failed")
		}
	}
	s.clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleHotel(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFrom(r.Context())
	s.render(w, r, "hotel.html", map[string]any{
		"Email": u.Email,
	})
}
