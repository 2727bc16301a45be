package httpserver

import (
	"net/http"
	"time"

	"github.com/andrebq/bookshelf/internal/logutil"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	RequestIDHeader = "X-Request-Id"
)

type (
	statusRecorder struct {
		http.ResponseWriter
		status int
		size   int
	}
)

// WithRequestLog gives every request its own logger, tagged with a fresh
// request.id, and logs the outcome once the handler returns.
// The query string is never logged since it may carry credentials.
func WithRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := uuid.New().String()
		base := logutil.GetOrDefault(r.Context())
		log := base.With().Str("request.id", id).Logger()
		w.Header().Set(RequestIDHeader, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(logutil.WithLogger(r.Context(), log)))

		var ev *zerolog.Event
		switch {
		case rec.status >= 500:
			ev = log.Error()
		case rec.status >= 400:
			ev = log.Info()
		default:
			ev = log.Debug()
		}
		ev.Str("http.method", r.Method).
			Str("http.path", r.URL.Path).
			Int("http.status", rec.status).
			Int("http.size", rec.size).
			Dur("http.elapsed", time.Since(start)).
			Msg("Request served")
	})
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

func (s *statusRecorder) Write(buf []byte) (int, error) {
	n, err := s.ResponseWriter.Write(buf)
	s.size += n
	return n, err
}
