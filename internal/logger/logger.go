package logger

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger installs the process-wide zerolog logger writing JSON to stdout.
func InitLogger(level string) error {
	return initLogger(os.Stdout, level)
}

func initLogger(w io.Writer, level string) error {
	lvl := zerolog.InfoLevel
	if level != "" {
		parsed, err := zerolog.ParseLevel(level)
		if err != nil {
			return fmt.Errorf("parse log level %q: %w", level, err)
		}
		lvl = parsed
	}

	log.Logger = zerolog.New(w).
		With().
		Timestamp().
		Logger().
		Level(lvl)
	return nil
}

// RequestLogger logs request and response metadata for each HTTP call.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		event := log.Info().
			Str("method", r.Method).
			Str("uri", r.RequestURI).
			Int("status", status).
			Int("size", ww.BytesWritten()).
			Dur("duration", time.Since(start))
		if reqID := chimiddleware.GetReqID(r.Context()); reqID != "" {
			event = event.Str("request_id", reqID)
		}
		event.Msg("Request processed")
	})
}
