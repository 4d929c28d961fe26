package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/small-engineer/go-web-serv/booking/internal/logutil"
)

func newServer(handler http.Handler) *http.Server {
	return &http.Server{
		Handler:           handler,
		ReadTimeout:       time.Minute,
		WriteTimeout:      time.Minute,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       time.Minute * 5,
	}
}

// Serve listens on bind until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, bind string, handler http.Handler) error {
	l, err := net.Listen("tcp", bind)
	if err != nil {
		return err
	}
	return ServeListener(ctx, l, handler)
}

func ServeListener(ctx context.Context, l net.Listener, handler http.Handler) error {
	server := newServer(handler)
	log := logutil.GetOrDefault(ctx).With().Str("server.addr", l.Addr().String()).Logger()

	errc := make(chan error, 1)
	go func() {
		log.Info().Msg("Starting HTTP server")
		errc <- server.Serve(l)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Initiating shutdown process")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info().Msg("Shutdown completed")
	return nil
}
