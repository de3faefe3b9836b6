package catalog

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, c *Catalog) {
	// Público: la tienda se puede ver sin sesión.
	r.Get("/shop/items", listItemsHandler(c))
}

type feedResponse struct {
	Happiness  int `json:"happiness"`
	Experience int `json:"experience"`
}

// ItemResponse es un item de la tienda (también lo usa inventory en la compra).
type ItemResponse struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Category Category      `json:"category" enums:"Clothes,Food,Accessories,Backgrounds"`
	Price    int           `json:"price"`
	Rarity   string        `json:"rarity"`
	Feed     *feedResponse `json:"feed,omitempty"`
}

// listItemsHandler godoc
// @Summary Listar catálogo de la tienda
// @Description Devuelve los items a la venta. Filtro opcional por categoría.
// @Tags shop
// @Produce json
// @Param category query string false "Clothes, Food, Accessories o Backgrounds"
// @Success 200 {array} ItemResponse
// @Failure 400 {string} string "unknown category"
// @Router /shop/items [get]
func listItemsHandler(c *Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cat := Category(strings.TrimSpace(r.URL.Query().Get("category")))
		if cat != "" && !cat.Valid() {
			http.Error(w, "unknown category", http.StatusBadRequest)
			return
		}

		items := c.List(cat)
		out := make([]ItemResponse, 0, len(items))
		for _, it := range items {
			out = append(out, ToItemResponse(it))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func ToItemResponse(it Item) ItemResponse {
	resp := ItemResponse{
		ID:       it.ID,
		Name:     it.Name,
		Category: it.Category,
		Price:    it.Price,
		Rarity:   it.Rarity,
	}
	if it.Feed != nil {
		resp.Feed = &feedResponse{Happiness: it.Feed.Happiness, Experience: it.Feed.Experience}
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
