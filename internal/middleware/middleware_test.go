package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"task-buddy/internal/platform/logger"
	"task-buddy/internal/ports/auth"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
)

type fakeVerifier struct {
	valid string
}

func (v fakeVerifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	if token != v.valid {
		return auth.Claims{}, errors.New("bad token")
	}
	return auth.Claims{UserID: "user-jwt"}, nil
}

func whoami(w http.ResponseWriter, r *http.Request) {
	uid, ok := UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	_, _ = w.Write([]byte(uid))
}

func TestAuthContext_DevHeader(t *testing.T) {
	h := AuthContext(nil, nil)(http.HandlerFunc(whoami))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Debug-User-ID", "  dev-1 ")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dev-1", rec.Body.String())
}

func TestAuthContext_VerifierIgnoresDebugHeader(t *testing.T) {
	h := AuthContext(fakeVerifier{valid: "good"}, nil)(http.HandlerFunc(whoami))

	cases := []struct {
		name   string
		header map[string]string
		code   int
	}{
		{"debug header ignored", map[string]string{"X-Debug-User-ID": "dev-1"}, http.StatusUnauthorized},
		{"bad token", map[string]string{"Authorization": "Bearer nope"}, http.StatusUnauthorized},
		{"wrong scheme", map[string]string{"Authorization": "Basic good"}, http.StatusUnauthorized},
		{"good token", map[string]string{"Authorization": "bearer good"}, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tc.header {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}

func TestRequestLog_LogsStatusAndInjectsLogger(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Level: logger.Debug, Format: logger.FormatText, Output: &buf})

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Logger(r.Context()).Error("boom", nil)
		http.Error(w, "internal error", http.StatusInternalServerError)
	})
	h := chimw.RequestID(RequestLog(log)(inner))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks", nil))

	out := buf.String()
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.True(t, strings.Contains(out, "msg=boom"), out)
	assert.True(t, strings.Contains(out, "status=500"), out)
	assert.True(t, strings.Contains(out, "request_id="), out)
}
