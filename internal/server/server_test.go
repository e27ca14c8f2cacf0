package server

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"word-wolf/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHomePage(t *testing.T) {
	_, ts := newWordWolf(t, nil)
	createThreePlayerRoom(t, ts, "kitchen")

	resp := doRequest(t, ts, http.MethodGet, "/?room_id=kitchen", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), "kitchen")
}

func TestCreateRoomDefaults(t *testing.T) {
	_, ts := newWordWolf(t, nil)

	roomID := createRoom(t, ts, map[string]any{"room_name": "  ひるやすみ  "})
	assert.Len(t, roomID, 6)

	state := fetchState(t, ts, roomID)
	assert.Equal(t, "state", state["type"])
	assert.Equal(t, "Lobby", state["phase"])
	assert.Equal(t, "ひるやすみ", state["room_name"])
	assert.EqualValues(t, 4, state["max_players"])
	assert.EqualValues(t, 1, state["wolf_count"])
	assert.EqualValues(t, 3, state["max_speak"])
	assert.Nil(t, state["remaining_time"])
	_, hasWolf := state["wolf_id"]
	assert.False(t, hasWolf)
}

func TestCreateRoomFormBody(t *testing.T) {
	_, ts := newWordWolf(t, nil)

	form := "room_id=form-room&room_name=%E3%83%86%E3%82%B9%E3%83%88&max_players=5&wolf_count=2&discussion_time=60"
	resp, err := http.Post(ts.URL+"/room/create", "application/x-www-form-urlencoded", strings.NewReader(form))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	state := fetchState(t, ts, "form-room")
	assert.EqualValues(t, 5, state["max_players"])
	assert.EqualValues(t, 2, state["wolf_count"])
}

func TestCreateRoomRejectsInvalidConfig(t *testing.T) {
	_, ts := newWordWolf(t, nil)

	cases := []struct {
		name    string
		payload map[string]any
		message string
	}{
		{"too few players", map[string]any{"max_players": 2}, "最低3人必要です"},
		{"no wolves", map[string]any{"wolf_count": 0}, "最低1人のワードウルフが必要です"},
		{"wolves not a minority", map[string]any{"max_players": 4, "wolf_count": 2}, "4人部屋では最大1人のワードウルフまでです（少数派を保つため）"},
		{"zero discussion", map[string]any{"discussion_time": 0}, "議論時間は1秒以上にしてください"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := expectStatus(t, doRequest(t, ts, http.MethodPost, "/room/create", tc.payload), http.StatusBadRequest)
			assert.Equal(t, tc.message, body["error"])
			assert.Equal(t, "invalid_config", body["code"])
		})
	}
}

func TestCreateRoomDuplicate(t *testing.T) {
	_, ts := newWordWolf(t, nil)
	createThreePlayerRoom(t, ts, "dup")

	body := expectStatus(t, doRequest(t, ts, http.MethodPost, "/room/create", map[string]any{"room_id": "dup"}), http.StatusForbidden)
	assert.Equal(t, "already_exists", body["code"])
}

func TestCreateRoomRateLimited(t *testing.T) {
	_, ts := newWordWolf(t, func(cfg *config.Config) {
		cfg.CreateRatePerMinute = 1
	})
	createRoom(t, ts, nil)

	body := expectStatus(t, doRequest(t, ts, http.MethodPost, "/room/create", map[string]any{}), http.StatusTooManyRequests)
	assert.NotEmpty(t, body["error"])
}

func TestRoomListAndDelete(t *testing.T) {
	_, ts := newWordWolf(t, nil)
	createThreePlayerRoom(t, ts, "b-room")
	createThreePlayerRoom(t, ts, "a-room")

	body := expectStatus(t, doRequest(t, ts, http.MethodGet, "/room/list", nil), http.StatusOK)
	assert.Equal(t, []any{"a-room", "b-room"}, body["rooms"])
	details, ok := body["details"].([]any)
	require.True(t, ok)
	require.Len(t, details, 2)
	assert.Equal(t, "テスト部屋", details[0].(map[string]any)["name"])

	postOK(t, ts, "/room/delete", map[string]string{"room_id": "a-room"})
	body = expectStatus(t, doRequest(t, ts, http.MethodGet, "/room/list", nil), http.StatusOK)
	assert.Equal(t, []any{"b-room"}, body["rooms"])

	body = expectStatus(t, doRequest(t, ts, http.MethodPost, "/room/delete", map[string]string{"room_id": "a-room"}), http.StatusNotFound)
	assert.Equal(t, "部屋が見つかりません", body["error"])
}

func TestJoinAssignsPlayerID(t *testing.T) {
	_, ts := newWordWolf(t, nil)
	createThreePlayerRoom(t, ts, "join")

	body := expectStatus(t, doRequest(t, ts, http.MethodPost, "/room/join", map[string]string{
		"room_id":     "join",
		"player_name": "  あかり ",
	}), http.StatusOK)
	playerID, ok := body["player_id"].(string)
	require.True(t, ok)
	assert.NotEmpty(t, playerID)
	assert.Equal(t, "あかり", body["player"])

	resp := doRequest(t, ts, http.MethodGet, "/room/players?room_id=join", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var players []map[string]any
	require.NoError(t, decodeJSON(resp.Body, &players))
	require.Len(t, players, 1)
	assert.Equal(t, map[string]any{"id": playerID, "name": "あかり", "alive": true}, players[0])
}

func TestJoinValidation(t *testing.T) {
	_, ts := newWordWolf(t, nil)
	createThreePlayerRoom(t, ts, "valid")

	cases := []struct {
		name    string
		payload map[string]string
		status  int
		message string
	}{
		{"missing room", map[string]string{"player_name": "a"}, http.StatusBadRequest, "部屋IDを指定してください"},
		{"bad room id", map[string]string{"room_id": "no spaces", "player_name": "a"}, http.StatusBadRequest, "部屋IDは英数字・ハイフン・アンダースコアで64文字以内にしてください"},
		{"pipe in name", map[string]string{"room_id": "valid", "player_name": "a|b"}, http.StatusBadRequest, "名前は20文字以内で、記号「|」は使えません"},
		{"unknown room", map[string]string{"room_id": "missing", "player_name": "a"}, http.StatusNotFound, "部屋が見つかりません"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := expectStatus(t, doRequest(t, ts, http.MethodPost, "/room/join", tc.payload), tc.status)
			assert.Equal(t, tc.message, body["error"])
		})
	}
}

func TestJoinRoomFull(t *testing.T) {
	_, ts := newWordWolf(t, nil)
	createThreePlayerRoom(t, ts, "full")
	joinPlayer(t, ts, "full", "p1", "a")
	joinPlayer(t, ts, "full", "p2", "b")
	joinPlayer(t, ts, "full", "p3", "c")

	body := expectStatus(t, doRequest(t, ts, http.MethodPost, "/room/join", map[string]string{
		"room_id": "full", "player_id": "p4", "player_name": "d",
	}), http.StatusForbidden)
	assert.Equal(t, "満員です", body["error"])
	assert.Equal(t, "room_full", body["code"])
}

func TestActionsOutsidePhase(t *testing.T) {
	_, ts := newWordWolf(t, nil)
	createThreePlayerRoom(t, ts, "phase")
	joinPlayer(t, ts, "phase", "p1", "a")

	for _, path := range []string{"/room/speak", "/room/theme/confirm"} {
		body := expectStatus(t, doRequest(t, ts, http.MethodPost, path, map[string]string{
			"room_id": "phase", "player_id": "p1",
		}), http.StatusBadRequest)
		assert.Equal(t, "invalid_phase", body["code"], path)
	}
	body := expectStatus(t, doRequest(t, ts, http.MethodPost, "/room/start-vote", map[string]string{"room_id": "phase"}), http.StatusBadRequest)
	assert.Equal(t, "invalid_phase", body["code"])
	body = expectStatus(t, doRequest(t, ts, http.MethodPost, "/room/vote", map[string]string{
		"room_id": "phase", "voter_id": "p1", "target_id": "p1",
	}), http.StatusBadRequest)
	assert.Equal(t, "invalid_phase", body["code"])
}

func TestReadyRequiresMembership(t *testing.T) {
	_, ts := newWordWolf(t, nil)
	createThreePlayerRoom(t, ts, "ready")

	body := expectStatus(t, doRequest(t, ts, http.MethodPost, "/room/ready", map[string]string{
		"room_id": "ready", "player_id": "ghost",
	}), http.StatusNotFound)
	assert.Equal(t, "参加してから操作してください", body["error"])
}

func TestTimerAndThemeBeforeGame(t *testing.T) {
	_, ts := newWordWolf(t, nil)
	createThreePlayerRoom(t, ts, "idle")
	joinPlayer(t, ts, "idle", "p1", "a")

	body := expectStatus(t, doRequest(t, ts, http.MethodGet, "/room/timer?room_id=idle", nil), http.StatusOK)
	value, present := body["remaining"]
	assert.True(t, present)
	assert.Nil(t, value)

	theme := fetchTheme(t, ts, "idle", "p1")
	assert.Nil(t, theme["theme"])
	assert.Nil(t, theme["role"])

	body = expectStatus(t, doRequest(t, ts, http.MethodGet, "/player/theme?room_id=idle&player_id=ghost", nil), http.StatusNotFound)
	assert.Equal(t, "not_found", body["code"])
}

func TestGenres(t *testing.T) {
	_, ts := newWordWolf(t, nil)

	body := expectStatus(t, doRequest(t, ts, http.MethodGet, "/room/genres", nil), http.StatusOK)
	genres, ok := body["genres"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, genres)
	first := genres[0].(map[string]any)
	assert.Equal(t, "Food", first["id"])
	assert.Equal(t, "食べ物", first["label"])
}

func TestRoomQR(t *testing.T) {
	_, ts := newWordWolf(t, nil)
	createThreePlayerRoom(t, ts, "qr")

	resp := doRequest(t, ts, http.MethodGet, "/room/qr?room_id=qr", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "\x89PNG"))

	resp = doRequest(t, ts, http.MethodGet, "/room/qr?room_id=nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHistoryWithoutDatabase(t *testing.T) {
	_, ts := newWordWolf(t, nil)
	createThreePlayerRoom(t, ts, "hist")

	body := expectStatus(t, doRequest(t, ts, http.MethodGet, "/room/history?room_id=hist", nil), http.StatusOK)
	assert.Equal(t, []any{}, body["results"])
}

func TestCORSPreflight(t *testing.T) {
	_, ts := newWordWolf(t, nil)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/room/join", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://example.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), http.MethodPost)
}

func TestCORSRestrictedOrigins(t *testing.T) {
	_, ts := newWordWolf(t, func(cfg *config.Config) {
		cfg.AllowedOrigins = []string{"http://allowed.test"}
	})

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/room/list", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://allowed.test")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	assert.Equal(t, "http://allowed.test", resp.Header.Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "http://denied.test")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestUnknownRoute(t *testing.T) {
	_, ts := newWordWolf(t, nil)

	body := expectStatus(t, doRequest(t, ts, http.MethodGet, "/nowhere", nil), http.StatusNotFound)
	assert.Equal(t, "ページが見つかりません", body["error"])
}
