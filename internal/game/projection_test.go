package game

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestLobbyProjection(t *testing.T) {
	reg := newTestRegistry(t.Context())
	cfg := testConfig(60, 10)
	cfg.Genre = GenreAnimal
	require.NoError(t, reg.Create("r1", cfg))
	do(t, reg, "r1", func(r *Room) error { return r.Join("p1", "Ada") })
	do(t, reg, "r1", func(r *Room) error { return r.Join("p2", "Bob") })
	do(t, reg, "r1", func(r *Room) error { return r.MarkReady("p2") })

	var got Projection
	var gen uint64
	do(t, reg, "r1", func(r *Room) error {
		got = r.Projection()
		gen = r.Generation()
		return nil
	})
	want := Projection{
		Type:     "state",
		RoomID:   "r1",
		RoomName: "テストルーム",
		Phase:    PhaseLobby,
		Players: map[PlayerID]PlayerView{
			"p1": {ID: "p1", Name: "Ada", Alive: true},
			"p2": {ID: "p2", Name: "Bob", Alive: true, Ready: true},
		},
		Order:      []PlayerID{"p1", "p2"},
		MaxPlayers: 3,
		MaxSpeak:   3,
		WolfCount:  1,
		Genre:      "動物",
		GameID:     gen,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("lobby projection mismatch (-want +got):\n%s", diff)
	}
}

func TestResultProjectionRevealsRoles(t *testing.T) {
	reg := newTestRegistry(t.Context())
	require.NoError(t, reg.Create("r1", testConfig(60, 10)))
	joinAndReady(t, reg, "r1", "p1", "p2", "p3")
	submitAll(t, reg, "r1", map[PlayerID]string{"p1": "apple", "p2": "banana", "p3": "grape"})
	do(t, reg, "r1", func(r *Room) error { return r.StartVote() })
	for _, pid := range []PlayerID{"p1", "p2", "p3"} {
		do(t, reg, "r1", func(r *Room) error { return r.Vote(pid, "p1") })
	}

	do(t, reg, "r1", func(r *Room) error {
		view := r.Projection()
		require.NotNil(t, view.ResultView)
		require.NotNil(t, view.ExecutedID)
		wolf := r.wolfIDs()[0]
		wantResult := &ResultView{
			WolfID:     wolf,
			WolfIDs:    []PlayerID{wolf},
			ExecutedID: view.ExecutedID,
			Votes:      map[PlayerID]int{"p1": 3},
			Topics: map[string]string{
				"citizen": r.pool.selected.Citizen,
				"wolf":    r.pool.selected.Wolf,
			},
		}
		if diff := cmp.Diff(wantResult, view.ResultView); diff != "" {
			t.Errorf("result mismatch (-want +got):\n%s", diff)
		}
		if *view.ExecutedID != "p1" {
			t.Errorf("executed = %s, want p1", *view.ExecutedID)
		}
		if got, want := *view.IsVillagerWin, wolf == "p1"; got != want {
			t.Errorf("is_villager_win = %v, want %v", got, want)
		}
		for id, pv := range view.Players {
			if pv.Topic == nil || *pv.Topic != r.players[id].Keyword {
				t.Errorf("player %s topic not revealed", id)
			}
			if pv.Vote == nil || *pv.Vote != "p1" {
				t.Errorf("player %s vote not revealed", id)
			}
		}
		return nil
	})
}
