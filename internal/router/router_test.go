package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"task-buddy/internal/config"
	"task-buddy/internal/router"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := config.Default()
	cfg.App.Timezone = "UTC"
	h, err := router.NewRouter(router.Options{Config: &cfg})
	if err != nil {
		t.Fatalf("new router: %v", err)
	}
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts
}

type inventoryBody struct {
	Coins int `json:"coins"`
	Items []struct {
		ItemID   string `json:"item_id"`
		Quantity int    `json:"quantity"`
	} `json:"items"`
}

type petBody struct {
	ID         string `json:"id"`
	Level      int    `json:"level"`
	Experience int    `json:"experience"`
	Happiness  int    `json:"happiness"`
}

func TestHTTP_EndToEnd_TaskRewardPetAndShop(t *testing.T) {
	ts := newTestServer(t)
	userID := "kid-1"

	// 1) Crear y completar una tarea paga 10 monedas una sola vez
	taskID := createID(t, ts.URL, "/tasks", userID, map[string]any{"title": "Make bed"})
	{
		var resp struct {
			Completed     bool `json:"completed"`
			RewardGranted int  `json:"reward_granted"`
		}
		mustJSON(t, ts.URL, "PUT", "/tasks/"+taskID, userID, map[string]any{"completed": true}, http.StatusOK, &resp)
		if !resp.Completed || resp.RewardGranted != 10 {
			t.Fatalf("expected completed with reward 10, got %+v", resp)
		}

		// reward_granted es omitempty: ausente en el reenvío
		var again map[string]any
		mustJSON(t, ts.URL, "PUT", "/tasks/"+taskID, userID, map[string]any{"completed": true}, http.StatusOK, &again)
		if _, paid := again["reward_granted"]; paid {
			t.Fatalf("expected no reward on resend, got %v", again["reward_granted"])
		}
	}

	// 2) Inventario: 100 iniciales + 10
	{
		var inv inventoryBody
		mustJSON(t, ts.URL, "GET", "/me/inventory", userID, nil, http.StatusOK, &inv)
		if inv.Coins != 110 {
			t.Fatalf("expected 110 coins, got %d", inv.Coins)
		}
	}

	// 3) Mascota y play
	petID := createID(t, ts.URL, "/pets", userID, map[string]any{"name": "Mochi", "type": "cat"})
	{
		var resp struct {
			Pet petBody `json:"pet"`
		}
		mustJSON(t, ts.URL, "POST", "/pets/"+petID+"/play", userID, nil, http.StatusOK, &resp)
		if resp.Pet.Experience != 20 || resp.Pet.Happiness != 100 || resp.Pet.Level != 1 {
			t.Fatalf("unexpected pet after play: %+v", resp.Pet)
		}
	}
	{
		var cur petBody
		mustJSON(t, ts.URL, "GET", "/pets/current", userID, nil, http.StatusOK, &cur)
		if cur.ID != petID {
			t.Fatalf("expected current pet %s, got %s", petID, cur.ID)
		}
	}

	// 4) Comprar comida y alimentar
	{
		var resp struct {
			Inventory inventoryBody `json:"inventory"`
		}
		mustJSON(t, ts.URL, "POST", "/me/inventory/purchase", userID, map[string]any{"item_id": "food-1"}, http.StatusOK, &resp)
		if resp.Inventory.Coins != 30 {
			t.Fatalf("expected 30 coins after purchase, got %d", resp.Inventory.Coins)
		}

		st, _ := doReq(t, ts.URL, "POST", "/me/inventory/purchase", userID, map[string]any{"item_id": "bg-forest"})
		if st != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422 purchasing without coins, got %d", st)
		}
	}
	{
		var resp struct {
			Pet       petBody       `json:"pet"`
			Inventory inventoryBody `json:"inventory"`
		}
		mustJSON(t, ts.URL, "POST", "/pets/"+petID+"/feed", userID, map[string]any{"item_id": "food-1"}, http.StatusOK, &resp)
		if resp.Pet.Experience != 25 {
			t.Fatalf("expected experience 25 after feed, got %d", resp.Pet.Experience)
		}
		if len(resp.Inventory.Items) != 1 || resp.Inventory.Items[0].Quantity != 0 {
			t.Fatalf("expected food consumed, got %+v", resp.Inventory.Items)
		}

		st, _ := doReq(t, ts.URL, "POST", "/pets/"+petID+"/feed", userID, map[string]any{"item_id": "food-1"})
		if st != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422 feeding without food, got %d", st)
		}
		st, _ = doReq(t, ts.URL, "POST", "/pets/"+petID+"/feed", userID, map[string]any{"item_id": "hat-1"})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 feeding a non-food item, got %d", st)
		}
	}

	// 5) Engagement
	{
		var stats struct {
			CompletedThisWeek int    `json:"completed_this_week"`
			Streak            int    `json:"streak"`
			Timezone          string `json:"timezone"`
		}
		mustJSON(t, ts.URL, "GET", "/me/engagement", userID, nil, http.StatusOK, &stats)
		if stats.CompletedThisWeek != 1 || stats.Streak != 1 || stats.Timezone != "UTC" {
			t.Fatalf("unexpected engagement: %+v", stats)
		}
	}

	// 6) Preferencias
	{
		st, _ := doReq(t, ts.URL, "PUT", "/me/preferences/background", userID, map[string]any{"value": "bg-forest"})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for unowned background, got %d", st)
		}
		st, _ = doReq(t, ts.URL, "PUT", "/me/preferences/color", userID, map[string]any{"value": "red"})
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 for unknown key, got %d", st)
		}

		var prefs map[string]string
		mustJSON(t, ts.URL, "PUT", "/me/preferences/current_pet", userID, map[string]any{"value": petID}, http.StatusOK, &prefs)
		if prefs["current_pet"] != petID {
			t.Fatalf("expected current_pet saved, got %v", prefs)
		}
	}
}

func TestHTTP_IsolationAndAuth(t *testing.T) {
	ts := newTestServer(t)

	petID := createID(t, ts.URL, "/pets", "owner-1", map[string]any{"name": "Pingu", "type": "penguin"})

	st, _ := doReq(t, ts.URL, "GET", "/pets/"+petID, "other-1", nil)
	if st != http.StatusNotFound {
		t.Fatalf("expected 404 for someone else's pet, got %d", st)
	}
	st, _ = doReq(t, ts.URL, "POST", "/pets/"+petID+"/play", "other-1", nil)
	if st != http.StatusNotFound {
		t.Fatalf("expected 404 playing with someone else's pet, got %d", st)
	}

	st, _ = doReq(t, ts.URL, "GET", "/tasks", "", nil)
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 without user, got %d", st)
	}

	st, _ = doReq(t, ts.URL, "POST", "/pets", "owner-1", map[string]any{"name": "Rex", "type": "dragon"})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown pet type, got %d", st)
	}
}

func TestHTTP_PublicRoutes(t *testing.T) {
	ts := newTestServer(t)

	st, body := doReq(t, ts.URL, "GET", "/health", "", nil)
	if st != http.StatusOK || string(body) != "ok" {
		t.Fatalf("expected health ok, got %d %s", st, string(body))
	}

	var items []struct {
		ID string `json:"id"`
	}
	mustJSON(t, ts.URL, "GET", "/shop/items", "", nil, http.StatusOK, &items)
	if len(items) != 8 {
		t.Fatalf("expected 8 catalog items, got %d", len(items))
	}

	st, _ = doReq(t, ts.URL, "GET", "/swagger/doc.json", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected swagger doc, got %d", st)
	}
}

func createID(t *testing.T, baseURL, path, userID string, payload map[string]any) string {
	t.Helper()

	var resp struct {
		ID string `json:"id"`
	}
	mustJSON(t, baseURL, "POST", path, userID, payload, http.StatusCreated, &resp)
	if resp.ID == "" {
		t.Fatalf("POST %s: missing id", path)
	}
	return resp.ID
}

func mustJSON(t *testing.T, baseURL, method, path, userID string, body any, want int, out any) {
	t.Helper()

	st, raw := doReq(t, baseURL, method, path, userID, body)
	if st != want {
		t.Fatalf("%s %s: expected %d, got %d body=%s", method, path, want, st, string(raw))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("%s %s: decode: %v body=%s", method, path, err, string(raw))
	}
}

func doReq(t *testing.T, baseURL, method, path, debugUserID string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
