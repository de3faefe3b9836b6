package engagement

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"task-buddy/internal/domain/tasks"
	"task-buddy/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/me/engagement", engagementHandler(svc))
}

type statsResponse struct {
	CompletedThisWeek int    `json:"completed_this_week"`
	Streak            int    `json:"streak"`
	Happiness         int    `json:"happiness"`
	Timezone          string `json:"timezone"`
}

// engagementHandler godoc
// @Summary Racha y actividad semanal
// @Description Calcula completed_this_week, streak y la happiness de display a partir de mis tareas.
// @Tags engagement
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param tz query string false "zona IANA para cortar días (default app.timezone)"
// @Success 200 {object} statsResponse
// @Failure 400 {string} string "unknown timezone"
// @Failure 401 {string} string "unauthorized"
// @Router /me/engagement [get]
func engagementHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		loc := svc.loc
		if tz := strings.TrimSpace(r.URL.Query().Get("tz")); tz != "" {
			l, err := time.LoadLocation(tz)
			if err != nil {
				http.Error(w, "unknown timezone", http.StatusBadRequest)
				return
			}
			loc = l
		}

		st, err := svc.ForUser(r.Context(), userID, loc)
		if err != nil {
			if errors.Is(err, tasks.ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			middleware.Logger(r.Context()).Error("engagement request failed", map[string]any{"error": err})
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, statsResponse{
			CompletedThisWeek: st.CompletedThisWeek,
			Streak:            st.Streak,
			Happiness:         st.Happiness,
			Timezone:          loc.String(),
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
