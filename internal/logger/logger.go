// Package logger provides structured logging configuration and request logging middleware.
package logger

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/pkgerrors"
)

func New(level string) zerolog.Logger {
	return NewWithWriter(level, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}

func NewWithWriter(level string, w io.Writer) zerolog.Logger {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano

	logLevel, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		logLevel = zerolog.InfoLevel
		// The main logger isn't configured yet.
		fmt.Fprintf(os.Stderr, "Invalid log level '%s', defaulting to 'info'\n", level)
	}

	gitRevision := "unknown"
	goVersion := "unknown"
	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		goVersion = buildInfo.GoVersion
		for _, v := range buildInfo.Settings {
			if v.Key == "vcs.revision" {
				gitRevision = v.Value
				break
			}
		}
	}

	l := zerolog.New(w).
		Level(logLevel).
		With().
		Timestamp().
		Caller().
		Int("pid", os.Getpid()).
		Str("go_version", goVersion).
		Str("git_revision", gitRevision).
		Logger()

	zerolog.DefaultContextLogger = &l
	return l
}

// Middleware attaches l to every request context and emits one access line per request.
func Middleware(l zerolog.Logger) func(http.Handler) http.Handler {
	access := hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Bool("htmx", r.Header.Get("HX-Request") == "true").
			Msg("request")
	})

	return func(next http.Handler) http.Handler {
		withReqID := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id := middleware.GetReqID(r.Context()); id != "" {
				zerolog.Ctx(r.Context()).UpdateContext(func(c zerolog.Context) zerolog.Context {
					return c.Str("request_id", id)
				})
			}
			next.ServeHTTP(w, r)
		})
		return hlog.NewHandler(l)(access(withReqID))
	}
}
