package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/AngelFireLA/Puissance4-L1ST/internal/logger"
)

// fakeAPI mimics the play server routes. It records what the move route
// received so tests can check what Logger hands on.
type fakeAPI struct {
	gotBody      string
	gotRequestID string
	moveCalls    int
}

func (f *fakeAPI) mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"status":"ok"}`)
	})
	mux.HandleFunc("POST /api/v1/move", func(w http.ResponseWriter, r *http.Request) {
		f.moveCalls++
		b, _ := io.ReadAll(r.Body)
		f.gotBody = string(b)
		f.gotRequestID = logger.RequestIDFromContext(r.Context())
		var req struct {
			Moves string `json:"moves"`
		}
		if err := json.Unmarshal(b, &req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			io.WriteString(w, `{"error":"invalid JSON"}`)
			return
		}
		io.WriteString(w, `{"column":3}`)
	})
	mux.HandleFunc("GET /api/v1/strategies", func(w http.ResponseWriter, r *http.Request) {
		panic("registry exploded")
	})
	return mux
}

func (f *fakeAPI) server(origins string) http.Handler {
	return Chain(f.mux(), Logger, Recover, CORS(origins), JSON)
}

func TestChainServesMoveRoute(t *testing.T) {
	api := &fakeAPI{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/move", strings.NewReader(`{"moves":"4453"}`))
	rec := httptest.NewRecorder()
	api.server("https://p4.example").ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != `{"column":3}` {
		t.Errorf("expected column answer, got %s", rec.Body.String())
	}
	if api.gotBody != `{"moves":"4453"}` {
		t.Errorf("expected move body to reach the handler, got %q", api.gotBody)
	}

	id := rec.Header().Get(RequestIDHeader)
	if len(id) != 8 {
		t.Errorf("expected 8-char request id header, got %q", id)
	}
	if api.gotRequestID != id {
		t.Errorf("expected context id %q, got %q", id, api.gotRequestID)
	}

	headers := []struct {
		name string
		want string
	}{
		{"Content-Type", "application/json"},
		{"Access-Control-Allow-Origin", "https://p4.example"},
		{"Access-Control-Allow-Methods", "GET, POST, OPTIONS"},
		{"Access-Control-Allow-Headers", "Content-Type"},
		{"Access-Control-Expose-Headers", "X-Request-ID"},
		{"Access-Control-Max-Age", "86400"},
	}
	for _, h := range headers {
		if got := rec.Header().Get(h.name); got != h.want {
			t.Errorf("%s: expected %q, got %q", h.name, h.want, got)
		}
	}
}

func TestChainKeepsHandlerStatus(t *testing.T) {
	api := &fakeAPI{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/move", strings.NewReader(`{"moves":`))
	rec := httptest.NewRecorder()
	api.server("*").ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestMovePreflight(t *testing.T) {
	api := &fakeAPI{}
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/move", nil)
	rec := httptest.NewRecorder()
	api.server("*").ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204 for preflight, got %d", rec.Code)
	}
	if api.moveCalls != 0 {
		t.Errorf("expected move handler untouched, got %d calls", api.moveCalls)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected origin *, got %q", got)
	}
}

func TestRecoverAnswersJSON(t *testing.T) {
	api := &fakeAPI{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/strategies", nil)
	rec := httptest.NewRecorder()
	api.server("*").ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if rec.Body.String() != `{"error":"internal error"}` {
		t.Errorf("expected JSON error body, got %s", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %s", ct)
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("expected request id on the error response")
	}
}

func TestRecoverLetsAbortThrough(t *testing.T) {
	h := Recover(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))
	defer func() {
		if rec := recover(); rec != http.ErrAbortHandler {
			t.Errorf("expected ErrAbortHandler to propagate, got %v", rec)
		}
	}()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/play", nil))
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		path string
		want zerolog.Level
	}{
		{"/healthz", zerolog.DebugLevel},
		{"/api/v1/strategies", zerolog.DebugLevel},
		{"/api/v1/move", zerolog.InfoLevel},
		{"/api/v1/play", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := levelFor(tt.path); got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.path, tt.want, got)
		}
	}
}

func TestStatusRecorderCapsCapture(t *testing.T) {
	rec := httptest.NewRecorder()
	sr := &statusRecorder{ResponseWriter: rec, status: http.StatusOK}
	chunk := strings.Repeat("x", 3000)
	for i := 0; i < 4; i++ {
		sr.Write([]byte(chunk))
	}
	if sr.body.Len() != maxCapturedResponse {
		t.Errorf("expected %d captured bytes, got %d", maxCapturedResponse, sr.body.Len())
	}
	if rec.Body.Len() != 4*len(chunk) {
		t.Errorf("expected full body passed on, got %d bytes", rec.Body.Len())
	}
}

func TestStatusRecorderHijackUnsupported(t *testing.T) {
	sr := &statusRecorder{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK}
	if _, _, err := sr.Hijack(); err == nil {
		t.Error("expected error from a writer without Hijack")
	}
	if sr.status != http.StatusOK {
		t.Errorf("expected status untouched, got %d", sr.status)
	}
}

func TestChainOrder(t *testing.T) {
	var order []string
	tag := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name+"-in")
				next.ServeHTTP(w, r)
				order = append(order, name+"-out")
			})
		}
	}
	mws := []func(http.Handler) http.Handler{tag("outer"), tag("inner")}
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "move")
	}), mws...)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/move", nil))

	want := []string{"outer-in", "inner-in", "move", "inner-out", "outer-out"}
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Errorf("expected %v, got %v", want, order)
	}

	// Chain must not reorder the caller's slice.
	h = Chain(http.NotFoundHandler(), mws...)
	order = nil
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if len(order) == 0 || order[0] != "outer-in" {
		t.Errorf("expected outer middleware first on reuse, got %v", order)
	}
}
