package inventory

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"task-buddy/internal/domain/catalog"
	"task-buddy/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/me/inventory", func(ir chi.Router) {
		ir.Get("/", getInventoryHandler(svc))
		ir.Post("/items", addItemHandler(svc))
		ir.Put("/coins", adjustCoinsHandler(svc))
		ir.Post("/purchase", purchaseHandler(svc))
	})
}

type addItemRequest struct {
	ItemID   string `json:"item_id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"` // opcional, default 1
	Type     string `json:"type"`
}

type adjustCoinsRequest struct {
	Amount *int `json:"amount"`
}

type purchaseRequest struct {
	ItemID string `json:"item_id"`
}

type itemResponse struct {
	ItemID     string    `json:"item_id"`
	Name       string    `json:"name"`
	Quantity   int       `json:"quantity"`
	Type       string    `json:"type"`
	Equipped   bool      `json:"equipped"`
	AcquiredAt time.Time `json:"acquired_at"`
}

type InventoryResponse struct {
	OwnerUserID string         `json:"owner_user_id"`
	Coins       int            `json:"coins"`
	Items       []itemResponse `json:"items"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type purchaseResponse struct {
	Inventory InventoryResponse    `json:"inventory"`
	Item      catalog.ItemResponse `json:"item"`
}

// getInventoryHandler godoc
// @Summary Mi inventario
// @Description Se crea en el primer acceso con el saldo inicial configurado.
// @Tags inventory
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Success 200 {object} InventoryResponse
// @Failure 401 {string} string "unauthorized"
// @Router /me/inventory [get]
func getInventoryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		inv, err := svc.Get(r.Context(), userID)
		if err != nil {
			WriteError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, ToResponse(inv))
	}
}

// addItemHandler godoc
// @Summary Agregar item
// @Description Si el item ya existe se suma la cantidad.
// @Tags inventory
// @Accept json
// @Produce json
// @Param payload body addItemRequest true "item_id, name y type obligatorios"
// @Success 200 {object} InventoryResponse
// @Failure 400 {string} string "invalid json / invalid input"
// @Failure 401 {string} string "unauthorized"
// @Router /me/inventory/items [post]
func addItemHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req addItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		inv, err := svc.AddItem(r.Context(), userID, AddItemInput{
			ItemID:   req.ItemID,
			Name:     req.Name,
			Quantity: req.Quantity,
			Type:     req.Type,
		})
		if err != nil {
			WriteError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, ToResponse(inv))
	}
}

// adjustCoinsHandler godoc
// @Summary Ajustar monedas
// @Description Suma amount (puede ser negativo). El saldo nunca baja de 0.
// @Tags inventory
// @Accept json
// @Produce json
// @Param payload body adjustCoinsRequest true "amount con signo"
// @Success 200 {object} InventoryResponse
// @Failure 400 {string} string "amount required"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "inventory not found"
// @Router /me/inventory/coins [put]
func adjustCoinsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req adjustCoinsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if req.Amount == nil {
			http.Error(w, "amount required", http.StatusBadRequest)
			return
		}

		inv, err := svc.AdjustCoins(r.Context(), userID, *req.Amount)
		if err != nil {
			WriteError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, ToResponse(inv))
	}
}

// purchaseHandler godoc
// @Summary Comprar item de la tienda
// @Tags inventory
// @Accept json
// @Produce json
// @Param payload body purchaseRequest true "item_id del catálogo"
// @Success 200 {object} purchaseResponse
// @Failure 400 {string} string "unknown item"
// @Failure 401 {string} string "unauthorized"
// @Failure 409 {string} string "item already owned"
// @Failure 422 {string} string "insufficient resources"
// @Router /me/inventory/purchase [post]
func purchaseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req purchaseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		inv, item, err := svc.Purchase(r.Context(), userID, req.ItemID)
		if err != nil {
			WriteError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, purchaseResponse{Inventory: ToResponse(inv), Item: catalog.ToItemResponse(item)})
	}
}

// WriteError mapea los errores de inventario a HTTP. Lo reutiliza pets en /feed.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "inventory not found", http.StatusNotFound)
	case errors.Is(err, ErrAlreadyOwned):
		http.Error(w, "item already owned", http.StatusConflict)
	case errors.Is(err, ErrInsufficient):
		http.Error(w, "insufficient resources", http.StatusUnprocessableEntity)
	default:
		middleware.Logger(r.Context()).Error("inventory request failed", map[string]any{"error": err})
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func ToResponse(inv Inventory) InventoryResponse {
	items := make([]itemResponse, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, itemResponse{
			ItemID:     it.ItemID,
			Name:       it.Name,
			Quantity:   it.Quantity,
			Type:       it.Type,
			Equipped:   it.Equipped,
			AcquiredAt: it.AcquiredAt,
		})
	}
	return InventoryResponse{
		OwnerUserID: inv.OwnerUserID,
		Coins:       inv.Coins,
		Items:       items,
		CreatedAt:   inv.CreatedAt,
		UpdatedAt:   inv.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
