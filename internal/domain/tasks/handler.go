package tasks

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"task-buddy/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/tasks", func(tr chi.Router) {
		tr.Post("/", createTaskHandler(svc))
		tr.Get("/", listTasksHandler(svc))
		tr.Get("/{taskID}", getTaskHandler(svc))

		// PUT y PATCH son el mismo update parcial (el cliente web usa PUT).
		tr.Put("/{taskID}", updateTaskHandler(svc))
		tr.Patch("/{taskID}", updateTaskHandler(svc))

		tr.Delete("/{taskID}", deleteTaskHandler(svc))
	})
}

// createTaskRequest es el cuerpo para crear una tarea.
type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Deadline    string `json:"deadline"` // RFC3339 o YYYY-MM-DD, opcional
}

// updateTaskRequest: punteros para update parcial; deadline se trata aparte para soportar null.
type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// taskResponse es una tarea devuelta por la API.
type taskResponse struct {
	ID            string     `json:"id"`
	OwnerUserID   string     `json:"owner_user_id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	Completed     bool       `json:"completed"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	RewardGranted int        `json:"reward_granted,omitempty"`
}

// createTaskHandler godoc
// @Summary Crear tarea
// @Tags tasks
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token"
// @Param payload body createTaskRequest true "Datos de la tarea; title es obligatorio"
// @Success 201 {object} taskResponse
// @Failure 400 {string} string "invalid json / title required / deadline inválido"
// @Failure 401 {string} string "unauthorized"
// @Router /tasks [post]
func createTaskHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createTaskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var deadline *time.Time
		if strings.TrimSpace(req.Deadline) != "" {
			t, err := parseDeadline(req.Deadline)
			if err != nil {
				http.Error(w, "deadline must be RFC3339 or YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			deadline = &t
		}

		t, err := svc.Create(r.Context(), userID, CreateInput{
			Title:       req.Title,
			Description: req.Description,
			Deadline:    deadline,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, toTaskResponse(t, 0))
	}
}

// listTasksHandler godoc
// @Summary Listar mis tareas
// @Description Más nuevas primero. Con q, ordena por coincidencia fuzzy del título.
// @Tags tasks
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param q query string false "búsqueda fuzzy en el título"
// @Param completed query bool false "filtrar por estado"
// @Success 200 {array} taskResponse
// @Failure 400 {string} string "completed must be true or false"
// @Failure 401 {string} string "unauthorized"
// @Router /tasks [get]
func listTasksHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		q := r.URL.Query()
		filter := ListFilter{Query: q.Get("q")}
		if raw := strings.TrimSpace(q.Get("completed")); raw != "" {
			b, err := strconv.ParseBool(raw)
			if err != nil {
				http.Error(w, "completed must be true or false", http.StatusBadRequest)
				return
			}
			filter.Completed = &b
		}

		items, err := svc.List(r.Context(), userID, filter)
		if err != nil {
			writeError(w, r, err)
			return
		}

		out := make([]taskResponse, 0, len(items))
		for _, t := range items {
			out = append(out, toTaskResponse(t, 0))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getTaskHandler godoc
// @Summary Obtener tarea
// @Tags tasks
// @Produce json
// @Param taskID path string true "ID de la tarea"
// @Success 200 {object} taskResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "task not found"
// @Router /tasks/{taskID} [get]
func getTaskHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		t, err := svc.Get(r.Context(), chi.URLParam(r, "taskID"), userID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toTaskResponse(t, 0))
	}
}

// updateTaskHandler godoc
// @Summary Actualizar tarea
// @Description Update parcial. Si completed pasa de false a true (según lo almacenado) se paga la recompensa y se informa en reward_granted. Enviar "deadline": null la limpia.
// @Tags tasks
// @Accept json
// @Produce json
// @Param taskID path string true "ID de la tarea"
// @Param payload body updateTaskRequest true "Campos a modificar"
// @Success 200 {object} taskResponse
// @Failure 400 {string} string "invalid json / title vacío / deadline inválido"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "task not found"
// @Failure 409 {string} string "conflict"
// @Router /tasks/{taskID} [put]
func updateTaskHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		// Decodificamos a map primero para detectar si "deadline" vino (y si vino null).
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var req updateTaskRequest
		{
			b, _ := json.Marshal(raw)
			if err := json.Unmarshal(b, &req); err != nil {
				http.Error(w, "invalid json", http.StatusBadRequest)
				return
			}
		}

		deadline := PatchTime{}
		if v, exists := raw["deadline"]; exists {
			deadline.Present = true
			if string(v) != "null" {
				var s string
				if err := json.Unmarshal(v, &s); err != nil {
					http.Error(w, "deadline must be RFC3339, YYYY-MM-DD or null", http.StatusBadRequest)
					return
				}
				if strings.TrimSpace(s) != "" {
					t, err := parseDeadline(s)
					if err != nil {
						http.Error(w, "deadline must be RFC3339, YYYY-MM-DD or null", http.StatusBadRequest)
						return
					}
					deadline.Value = &t
				}
			}
		}

		res, err := svc.Update(r.Context(), chi.URLParam(r, "taskID"), userID, UpdateInput{
			Title:       req.Title,
			Description: req.Description,
			Deadline:    deadline,
			Completed:   req.Completed,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, toTaskResponse(res.Task, res.Reward))
	}
}

// deleteTaskHandler godoc
// @Summary Borrar tarea
// @Tags tasks
// @Param taskID path string true "ID de la tarea"
// @Success 204
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "task not found"
// @Router /tasks/{taskID} [delete]
func deleteTaskHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "taskID"), userID); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func parseDeadline(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "task not found", http.StatusNotFound)
	case errors.Is(err, ErrConflict):
		http.Error(w, "conflict", http.StatusConflict)
	default:
		middleware.Logger(r.Context()).Error("task request failed", map[string]any{"error": err})
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toTaskResponse(t Task, reward int) taskResponse {
	return taskResponse{
		ID:            t.ID,
		OwnerUserID:   t.OwnerUserID,
		Title:         t.Title,
		Description:   t.Description,
		Deadline:      t.Deadline,
		Completed:     t.Completed,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
		RewardGranted: reward,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
