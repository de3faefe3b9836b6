package preferences

import (
	"encoding/json"
	"errors"
	"net/http"

	"task-buddy/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/me/preferences", func(pr chi.Router) {
		pr.Get("/", getPreferencesHandler(svc))
		pr.Put("/{key}", setPreferenceHandler(svc))
		pr.Delete("/{key}", removePreferenceHandler(svc))
	})
}

type setPreferenceRequest struct {
	Value string `json:"value"`
}

// getPreferencesHandler godoc
// @Summary Mis preferencias
// @Description Mapa clave → valor; claves: background, current_pet.
// @Tags preferences
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Success 200 {object} map[string]string
// @Failure 401 {string} string "unauthorized"
// @Router /me/preferences [get]
func getPreferencesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		prefs, err := svc.Get(r.Context(), userID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, prefs)
	}
}

// setPreferenceHandler godoc
// @Summary Guardar preferencia
// @Description background debe ser un fondo poseído; current_pet un pet propio.
// @Tags preferences
// @Accept json
// @Produce json
// @Param key path string true "background o current_pet"
// @Param payload body setPreferenceRequest true "valor"
// @Success 200 {object} map[string]string
// @Failure 400 {string} string "invalid input"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "unknown preference key"
// @Router /me/preferences/{key} [put]
func setPreferenceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req setPreferenceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		if err := svc.Set(r.Context(), userID, chi.URLParam(r, "key"), req.Value); err != nil {
			writeError(w, r, err)
			return
		}

		prefs, err := svc.Get(r.Context(), userID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, prefs)
	}
}

// removePreferenceHandler godoc
// @Summary Borrar preferencia
// @Tags preferences
// @Param key path string true "background o current_pet"
// @Success 204
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "unknown preference key"
// @Router /me/preferences/{key} [delete]
func removePreferenceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Remove(r.Context(), userID, chi.URLParam(r, "key")); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrUnknownKey):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		middleware.Logger(r.Context()).Error("preferences request failed", map[string]any{"error": err})
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
