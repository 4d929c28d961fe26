package httpadapter

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/small-engineer/go-web-serv/booking/internal/domain"
	"github.com/small-engineer/go-web-serv/booking/internal/usecase/auth"
	"github.com/small-engineer/go-web-serv/booking/internal/usecase/session"
)

const (
	cookieName = "session"
	loginPath  = "/login"
	hotelPath  = "/hotel"
)

//go:embed templates/*.html
var templateFS embed.FS

type Options struct {
	// StaticDir is served under /static/ when set.
	StaticDir    string
	SecureCookie bool
	Logger       zerolog.Logger
}

type Server struct {
	auth     *auth.Service
	sessions *session.Manager
	guard    *Guard
	t        *template.Template
	opts     Options
}

func loadTmpl() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}

func NewServer(a *auth.Service, sm *session.Manager, opts Options) *Server {
	return &Server{
		auth:     a,
		sessions: sm,
		guard:    NewGuard(sm, loginPath),
		t:        loadTmpl(),
		opts:     opts,
	}
}

func (s *Server) Routes() http.Handler {
	r := httprouter.New()
	r.HandlerFunc(http.MethodGet, "/", s.handleHome)
	r.HandlerFunc(http.MethodGet, "/book-now", s.handleBookNow)
	r.HandlerFunc(http.MethodGet, loginPath, s.handleLoginPage)
	r.HandlerFunc(http.MethodPost, loginPath, s.handleLogin)
	r.HandlerFunc(http.MethodPost, "/register", s.handleRegister)
	r.HandlerFunc(http.MethodGet, "/logout", s.handleLogout)
	r.Handler(http.MethodGet, hotelPath, s.guard.Protect(http.HandlerFunc(s.handleHotel)))
	if s.opts.StaticDir != "" {
		r.ServeFiles("/static/*filepath", http.Dir(s.opts.StaticDir))
	}

	var h http.Handler = r
	h = hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", d).
			Msg("request")
	})(h)
	h = hlog.RequestIDHandler("req_id", "Request-Id")(h)
	h = hlog.RemoteAddrHandler("ip")(h)
	h = hlog.NewHandler(s.opts.Logger)(h)
	return h
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	err := s.t.ExecuteTemplate(w, name, data)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("template", name).Msg("template error")
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

func (s *Server) setSessionCookie(w http.ResponseWriter, tok string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    tok,
		Path:     "/",
		MaxAge:   int(s.sessions.MaxAge() / time.Second),
		HttpOnly: true,
		Secure:   s.opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// startSession runs only after the authenticator has produced u.
func (s *Server) startSession(w http.ResponseWriter, r *http.Request, u *domain.User) bool {
	tok, _, err := s.sessions.Issue(r.Context(), u)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("issue session failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return false
	}
	s.setSessionCookie(w, tok)
	return true
}
