package pets

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"task-buddy/internal/domain/inventory"
	"task-buddy/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Post("/", createPetHandler(svc))
		pr.Get("/", listPetsHandler(svc))

		// Antes de /{petID} para que "current" no se tome como id.
		pr.Get("/current", currentPetHandler(svc))

		pr.Get("/{petID}", getPetHandler(svc))
		pr.Patch("/{petID}", renamePetHandler(svc))
		pr.Post("/{petID}/play", playHandler(svc))
		pr.Post("/{petID}/feed", feedHandler(svc))
	})
}

type createPetRequest struct {
	Name string `json:"name"`
	Type string `json:"type" enums:"cat,dog,penguin"`
}

type renamePetRequest struct {
	Name string `json:"name"`
}

type feedRequest struct {
	ItemID string `json:"item_id"`
}

// petResponse: happiness es el valor vigente (con decaimiento aplicado).
type petResponse struct {
	ID                 string    `json:"id"`
	OwnerUserID        string    `json:"owner_user_id"`
	Name               string    `json:"name"`
	Type               Type      `json:"type"`
	Level              int       `json:"level"`
	Experience         int       `json:"experience"`
	ExperienceForLevel int       `json:"experience_for_level"`
	Happiness          int       `json:"happiness"`
	LastPlayed         time.Time `json:"last_played"`
	Version            int       `json:"version"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type playResponse struct {
	Pet          petResponse `json:"pet"`
	LevelsGained int         `json:"levels_gained"`
}

type feedResponse struct {
	Pet          petResponse                 `json:"pet"`
	Inventory    inventory.InventoryResponse `json:"inventory"`
	LevelsGained int                         `json:"levels_gained"`
}

// createPetHandler godoc
// @Summary Crear mascota
// @Tags pets
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param payload body createPetRequest true "name (máx 20) y type"
// @Success 201 {object} petResponse
// @Failure 400 {string} string "invalid json / invalid input"
// @Failure 401 {string} string "unauthorized"
// @Router /pets [post]
func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createPetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.Create(r.Context(), userID, CreateInput{Name: req.Name, Type: req.Type})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, toPetResponse(p))
	}
}

// listPetsHandler godoc
// @Summary Listar mis mascotas
// @Description Ordenadas por creación; la primera es la mascota actual.
// @Tags pets
// @Produce json
// @Success 200 {array} petResponse
// @Failure 401 {string} string "unauthorized"
// @Router /pets [get]
func listPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.List(r.Context(), userID)
		if err != nil {
			writeError(w, r, err)
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// currentPetHandler godoc
// @Summary Mascota actual
// @Tags pets
// @Produce json
// @Success 200 {object} petResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "pet not found"
// @Router /pets/current [get]
func currentPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := svc.Current(r.Context(), userID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

// getPetHandler godoc
// @Summary Obtener mascota
// @Tags pets
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} petResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID} [get]
func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := svc.Get(r.Context(), chi.URLParam(r, "petID"), userID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

// renamePetHandler godoc
// @Summary Renombrar mascota
// @Tags pets
// @Accept json
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param payload body renamePetRequest true "nuevo nombre"
// @Success 200 {object} petResponse
// @Failure 400 {string} string "invalid input"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "pet not found"
// @Failure 409 {string} string "conflict"
// @Router /pets/{petID} [patch]
func renamePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req renamePetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.Rename(r.Context(), chi.URLParam(r, "petID"), userID, req.Name)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

// playHandler godoc
// @Summary Jugar con la mascota
// @Description Suma experiencia y happiness, reinicia el decaimiento y evalúa level-up.
// @Tags pets
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} playResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "pet not found"
// @Failure 409 {string} string "conflict"
// @Router /pets/{petID}/play [post]
func playHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		res, err := svc.Play(r.Context(), chi.URLParam(r, "petID"), userID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, playResponse{Pet: toPetResponse(res.Pet), LevelsGained: res.LevelsGained})
	}
}

// feedHandler godoc
// @Summary Alimentar mascota
// @Description Consume una unidad del item de comida y aplica su efecto.
// @Tags pets
// @Accept json
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param payload body feedRequest true "item_id de comida"
// @Success 200 {object} feedResponse
// @Failure 400 {string} string "not a food item"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "pet not found"
// @Failure 409 {string} string "conflict"
// @Failure 422 {string} string "insufficient resources"
// @Router /pets/{petID}/feed [post]
func feedHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req feedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		res, err := svc.Feed(r.Context(), chi.URLParam(r, "petID"), userID, req.ItemID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, feedResponse{
			Pet:          toPetResponse(res.Pet),
			Inventory:    inventory.ToResponse(res.Inventory),
			LevelsGained: res.LevelsGained,
		})
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "pet not found", http.StatusNotFound)
	case errors.Is(err, ErrConflict):
		http.Error(w, "conflict", http.StatusConflict)
	default:
		// errores del inventario (stock, etc.) en /feed
		inventory.WriteError(w, r, err)
	}
}

func toPetResponse(p Pet) petResponse {
	return petResponse{
		ID:                 p.ID,
		OwnerUserID:        p.OwnerUserID,
		Name:               p.Name,
		Type:               p.Type,
		Level:              p.Level,
		Experience:         p.Experience,
		ExperienceForLevel: ExperienceForLevel(p.Level),
		Happiness:          p.Happiness,
		LastPlayed:         p.LastPlayed,
		Version:            p.Version,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
