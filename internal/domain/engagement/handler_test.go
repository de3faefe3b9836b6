package engagement

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"task-buddy/internal/domain/tasks"
	"task-buddy/internal/middleware"
	"task-buddy/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	items []tasks.Task
}

func (f fakeLister) List(_ context.Context, _ string, flt tasks.ListFilter) ([]tasks.Task, error) {
	out := make([]tasks.Task, 0, len(f.items))
	for _, t := range f.items {
		if flt.Completed != nil && t.Completed != *flt.Completed {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func newTestServer(t *testing.T, items []tasks.Task, at time.Time) *httptest.Server {
	t.Helper()
	svc := NewService(fakeLister{items: items}, time.UTC)
	svc.now = func() time.Time { return at }

	r := chi.NewRouter()
	RegisterRoutes(r, svc)
	h := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if uid := req.Header.Get("X-Debug-User-ID"); uid != "" {
			req = req.WithContext(middleware.WithClaims(req.Context(), auth.Claims{UserID: uid}))
		}
		r.ServeHTTP(w, req)
	})
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string, user string) (*http.Response, statsResponse) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	if user != "" {
		req.Header.Set("X-Debug-User-ID", user)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out statsResponse
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp, out
}

func TestEngagementEndpoint(t *testing.T) {
	// 23:30 UTC del sábado 17 = domingo 18 en Auckland (nueva semana allá)
	at := time.Date(2026, 10, 17, 23, 30, 0, 0, time.UTC)
	created := at.Add(-72 * time.Hour)
	items := []tasks.Task{
		{ID: "a", Completed: true, CreatedAt: created, UpdatedAt: at.Add(-13 * time.Hour)},
		{ID: "b", Completed: true, CreatedAt: created, UpdatedAt: at.Add(-25 * time.Hour)},
		{ID: "c", Completed: false, CreatedAt: created, UpdatedAt: at},
	}
	srv := newTestServer(t, items, at)

	resp, _ := get(t, srv.URL+"/me/engagement", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, st := get(t, srv.URL+"/me/engagement", "u1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, st.CompletedThisWeek)
	assert.Equal(t, 2, st.Streak)
	assert.Equal(t, 60, st.Happiness)
	assert.Equal(t, "UTC", st.Timezone)

	resp, st = get(t, srv.URL+"/me/engagement?tz=Pacific/Auckland", "u1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, st.CompletedThisWeek)
	// ambas cayeron el sábado local; hoy (domingo) sin completar no corta
	assert.Equal(t, 1, st.Streak)
	assert.Equal(t, "Pacific/Auckland", st.Timezone)

	resp, _ = get(t, srv.URL+"/me/engagement?tz=Mars/Olympus", "u1")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
