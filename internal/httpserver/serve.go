package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/openboard-dev/openboard/internal/logutil"
)

// Serve runs handler on bind until ctx is cancelled, then shuts the
// server down gracefully.
func Serve(ctx context.Context, bind string, handler http.Handler) error {
	server := http.Server{
		Handler:           handler,
		Addr:              bind,
		ReadTimeout:       time.Minute,
		WriteTimeout:      time.Minute,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       5 * time.Minute,
	}
	log := logutil.GetOrDefault(ctx).With().Str("server.addr", server.Addr).Logger()

	errc := make(chan error, 1)
	go func() {
		log.Info().Msg("starting HTTP server")
		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errc <- err
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-errc
	}
}
