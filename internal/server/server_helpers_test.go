package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func doRequest(t *testing.T, ts *httptest.Server, method, path string, payload any) *http.Response {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() {
		_ = resp.Body.Close()
	})
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func expectStatus(t *testing.T, resp *http.Response, status int) map[string]any {
	t.Helper()
	if resp.StatusCode != status {
		t.Fatalf("expected status %d, got %d", status, resp.StatusCode)
	}
	return decodeBody(t, resp)
}

func createRoom(t *testing.T, ts *httptest.Server, payload map[string]any) string {
	t.Helper()
	body := expectStatus(t, doRequest(t, ts, http.MethodPost, "/room/create", payload), http.StatusCreated)
	roomID, ok := body["room_id"].(string)
	if !ok || roomID == "" {
		t.Fatalf("expected room_id, got %#v", body["room_id"])
	}
	return roomID
}

func createThreePlayerRoom(t *testing.T, ts *httptest.Server, roomID string) {
	t.Helper()
	createRoom(t, ts, map[string]any{
		"room_id":         roomID,
		"room_name":       "テスト部屋",
		"max_players":     3,
		"wolf_count":      1,
		"discussion_time": 180,
		"genre":           "food",
	})
}

func joinPlayer(t *testing.T, ts *httptest.Server, roomID, playerID, name string) {
	t.Helper()
	expectStatus(t, doRequest(t, ts, http.MethodPost, "/room/join", map[string]string{
		"room_id":     roomID,
		"player_id":   playerID,
		"player_name": name,
	}), http.StatusOK)
}

func postOK(t *testing.T, ts *httptest.Server, path string, payload map[string]string) {
	t.Helper()
	body := expectStatus(t, doRequest(t, ts, http.MethodPost, path, payload), http.StatusOK)
	if body["ok"] != true {
		t.Fatalf("expected ok response from %s, got %#v", path, body)
	}
}

func fetchState(t *testing.T, ts *httptest.Server, roomID string) map[string]any {
	t.Helper()
	return expectStatus(t, doRequest(t, ts, http.MethodGet, "/room/state?room_id="+roomID, nil), http.StatusOK)
}

func fetchTheme(t *testing.T, ts *httptest.Server, roomID, playerID string) map[string]any {
	t.Helper()
	return expectStatus(t, doRequest(t, ts, http.MethodGet, "/player/theme?room_id="+roomID+"&player_id="+playerID, nil), http.StatusOK)
}

// startDiscussion seats p1..p3, readies them and submits three distinct
// keywords, leaving the room in Discussion.
func startDiscussion(t *testing.T, ts *httptest.Server, roomID string) {
	t.Helper()
	players := []struct{ id, name, keyword string }{
		{"p1", "あかり", "りんご"},
		{"p2", "ひろ", "ばなな"},
		{"p3", "そら", "みかん"},
	}
	for _, p := range players {
		joinPlayer(t, ts, roomID, p.id, p.name)
	}
	for _, p := range players {
		postOK(t, ts, "/room/ready", map[string]string{"room_id": roomID, "player_id": p.id})
	}
	for _, p := range players {
		postOK(t, ts, "/room/keyword", map[string]string{"room_id": roomID, "player_id": p.id, "keyword": p.keyword})
	}
}

// wolfOf finds the single player whose keyword differs from the others.
func wolfOf(t *testing.T, ts *httptest.Server, roomID string, ids ...string) string {
	t.Helper()
	for _, id := range ids {
		theme := fetchTheme(t, ts, roomID, id)
		if theme["role"] == "wolf" {
			return id
		}
	}
	t.Fatalf("no wolf among %v", ids)
	return ""
}

func decodeJSON(r io.Reader, v any) error {
	return json.NewDecoder(r).Decode(v)
}
