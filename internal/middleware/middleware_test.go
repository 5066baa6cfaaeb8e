package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

func TestChain_Order(t *testing.T) {
	// Arrange: middlewares record the order they run in
	var order []string
	tag := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	handler := Chain(tag("first"), tag("second"), tag("third"))(okHandler())

	// Act
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	// Assert
	want := []string{"first", "second", "third"}
	if len(order) != len(want) {
		t.Fatalf("got %d middleware calls, want %d", len(order), len(want))
	}
	for i, name := range want {
		if order[i] != name {
			t.Errorf("order[%d] = %s, want %s", i, order[i], name)
		}
	}
}

func TestRequestID_Generated(t *testing.T) {
	// Arrange
	var captured string
	handler := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = r.Context().Value(RequestIDKey).(string)
		w.WriteHeader(http.StatusOK)
	}))

	// Act
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	// Assert
	if captured == "" {
		t.Error("request ID should be generated and stored in the context")
	}
	if got := rec.Header().Get(RequestIDHeader); got != captured {
		t.Errorf("response header = %q, want %q", got, captured)
	}
}

func TestRequestID_Preserved(t *testing.T) {
	// Arrange
	handler := RequestID()(okHandler())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "client-supplied-id")

	// Act
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	// Assert
	if got := rec.Header().Get(RequestIDHeader); got != "client-supplied-id" {
		t.Errorf("response header = %q, want client-supplied-id", got)
	}
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name           string
		allowedOrigins []string
		origin         string
		method         string
		wantStatus     int
		wantOrigin     string
	}{
		{
			name:           "allowed origin",
			allowedOrigins: []string{"https://app.example.com"},
			origin:         "https://app.example.com",
			method:         http.MethodGet,
			wantStatus:     http.StatusOK,
			wantOrigin:     "https://app.example.com",
		},
		{
			name:           "disallowed origin gets no allow header",
			allowedOrigins: []string{"https://app.example.com"},
			origin:         "https://evil.example.com",
			method:         http.MethodGet,
			wantStatus:     http.StatusOK,
			wantOrigin:     "",
		},
		{
			name:           "wildcard echoes origin",
			allowedOrigins: []string{"*"},
			origin:         "https://anywhere.example.com",
			method:         http.MethodGet,
			wantStatus:     http.StatusOK,
			wantOrigin:     "https://anywhere.example.com",
		},
		{
			name:           "preflight short-circuits",
			allowedOrigins: []string{"*"},
			origin:         "https://app.example.com",
			method:         http.MethodOptions,
			wantStatus:     http.StatusNoContent,
			wantOrigin:     "https://app.example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			handler := CORS(
				tt.allowedOrigins,
				[]string{http.MethodGet, http.MethodOptions},
				[]string{"Content-Type"},
			)(okHandler())

			req := httptest.NewRequest(tt.method, "/", nil)
			req.Header.Set("Origin", tt.origin)

			// Act
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			// Assert
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("allow origin = %q, want %q", got, tt.wantOrigin)
			}
		})
	}
}

func TestLogging_PassesThrough(t *testing.T) {
	// Arrange
	handler := Logging(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	// Act
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/todos", nil))

	// Assert
	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTeapot)
	}
}

func TestRecovery(t *testing.T) {
	// Arrange
	handler := Recovery(zap.NewNop())(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		panic("boom")
	}))

	// Act
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	// Assert
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}

func TestRecovery_NoPanicPassesThrough(t *testing.T) {
	// Arrange
	handler := Recovery(zap.NewNop())(okHandler())

	// Act
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	// Assert
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestMetrics_PassesThrough(t *testing.T) {
	// Arrange
	handler := Metrics()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	// Act
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/todos", nil))

	// Assert
	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusCreated)
	}
}

func TestResponseWriter_CapturesStatus(t *testing.T) {
	// Arrange
	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec)

	// Act
	rw.WriteHeader(http.StatusNotFound)
	rw.WriteHeader(http.StatusOK) // second call must be ignored

	// Assert
	if rw.statusCode != http.StatusNotFound {
		t.Errorf("statusCode = %d, want %d", rw.statusCode, http.StatusNotFound)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("recorded status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestResponseWriter_DefaultStatusOnWrite(t *testing.T) {
	// Arrange
	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec)

	// Act
	if _, err := rw.Write([]byte("body")); err != nil {
		t.Fatalf("Write() unexpected error: %v", err)
	}

	// Assert
	if rw.statusCode != http.StatusOK {
		t.Errorf("statusCode = %d, want %d", rw.statusCode, http.StatusOK)
	}
}
