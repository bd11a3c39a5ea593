// Package middleware holds the HTTP wrappers shared by the play server.
package middleware

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/AngelFireLA/Puissance4-L1ST/internal/logger"
)

// RequestIDHeader echoes the id assigned by Logger back to the client.
const RequestIDHeader = "X-Request-ID"

// maxCapturedResponse bounds how much of a response body Logger keeps for
// the debug log. Move answers and state payloads fit easily.
const maxCapturedResponse = 8 << 10

// quietPaths are polled by clients and logged at debug level only.
var quietPaths = []string{"/healthz", "/api/v1/strategies"}

var corsMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}

// Logger tags the request with an id and logs it on the way in and out.
// Request bodies (move lists) are logged at debug level and handed on
// unchanged.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := logger.NewRequestID()
		r = r.WithContext(logger.WithRequestID(r.Context(), id))
		w.Header().Set(RequestIDHeader, id)

		l := logger.Get().With().
			Str("requestId", id).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Logger()
		level := levelFor(r.URL.Path)

		if body := replayBody(r); len(body) > 0 {
			logger.LogRequest(l, body)
		}
		in := l.WithLevel(level)
		if r.URL.RawQuery != "" {
			in = in.Str("query", r.URL.RawQuery)
		}
		in.Msg("Request received")

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		logger.LogResponse(l, rec.body.Bytes())
		l.WithLevel(level).
			Int("status", rec.status).
			Dur("durationMs", time.Since(start)).
			Msg("Request completed")
	})
}

func levelFor(path string) zerolog.Level {
	if lo.Contains(quietPaths, path) {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

// replayBody reads the request body and puts an identical reader back.
func replayBody(r *http.Request) []byte {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil
	}
	r.Body = io.NopCloser(bytes.NewReader(body))
	return body
}

// Recover answers a panicking handler with a JSON 500 and logs the stack.
// Panics after the headers went out only get logged.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			l := logger.ForRequest(r.Context())
			l.Error().
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Str("path", r.URL.Path).
				Msg("Handler panicked")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			io.WriteString(w, `{"error":"internal error"}`)
		}()
		next.ServeHTTP(w, r)
	})
}

// CORS lets browser front ends on allowedOrigins call the API and read the
// request id. Preflight requests end here with 204.
func CORS(allowedOrigins string) func(http.Handler) http.Handler {
	methods := strings.Join(corsMethods, ", ")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", allowedOrigins)
			h.Set("Access-Control-Allow-Methods", methods)
			h.Set("Access-Control-Allow-Headers", "Content-Type")
			h.Set("Access-Control-Expose-Headers", RequestIDHeader)
			h.Set("Access-Control-Max-Age", "86400")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// JSON marks every response as application/json.
func JSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// Chain wraps h so that mws[0] sees the request first.
func Chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for _, mw := range lo.Reverse(append([]func(http.Handler) http.Handler(nil), mws...)) {
		h = mw(h)
	}
	return h
}

// statusRecorder remembers the status and the start of the body.
type statusRecorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	if room := maxCapturedResponse - w.body.Len(); room > 0 {
		w.body.Write(b[:min(room, len(b))])
	}
	return w.ResponseWriter.Write(b)
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Hijack hands the connection to the websocket upgrader.
func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("middleware: response writer cannot be hijacked")
	}
	w.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}
