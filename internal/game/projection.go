package game

import (
	"encoding/json"
	"sort"
)

type PlayerView struct {
	ID             PlayerID  `json:"id"`
	Name           string    `json:"name"`
	Alive          bool      `json:"alive"`
	Ready          bool      `json:"ready"`
	Submitted      bool      `json:"submitted"`
	Confirmed      bool      `json:"confirmed"`
	RemainingSpeak int       `json:"remaining_speak"`
	Voted          bool      `json:"voted"`
	Vote           *PlayerID `json:"vote,omitempty"`
	Topic          *string   `json:"topic,omitempty"`
	Role           Role      `json:"role,omitempty"`
}

// ResultView holds the fields that stay hidden until Result. Embedded by
// pointer so the keys are absent from every other phase.
type ResultView struct {
	WolfID     PlayerID          `json:"wolf_id"`
	WolfIDs    []PlayerID        `json:"wolf_ids"`
	ExecutedID *PlayerID         `json:"executed_id"`
	Votes      map[PlayerID]int  `json:"votes"`
	Topics     map[string]string `json:"topics"`
}

// Projection is the broadcast-safe view of a room.
type Projection struct {
	Type          string                  `json:"type"`
	RoomID        RoomID                  `json:"room_id"`
	RoomName      string                  `json:"room_name"`
	Phase         Phase                   `json:"phase"`
	Players       map[PlayerID]PlayerView `json:"players"`
	Order         []PlayerID              `json:"order"`
	MaxPlayers    int                     `json:"max_players"`
	MaxSpeak      int                     `json:"max_speak"`
	WolfCount     int                     `json:"wolf_count"`
	Genre         string                  `json:"genre"`
	Submissions   int                     `json:"submissions"`
	RemainingTime *int                    `json:"remaining_time"`
	VotingTime    *int                    `json:"voting_time"`
	IsVillagerWin *bool                   `json:"is_villager_win"`
	GameID        uint64                  `json:"game_id"`
	*ResultView
}

// Projection builds the public view. Caller holds the room lock.
func (r *Room) Projection() Projection {
	view := Projection{
		Type:       "state",
		RoomID:     r.id,
		RoomName:   r.cfg.Name,
		Phase:      r.state.phase(),
		Players:    make(map[PlayerID]PlayerView, len(r.players)),
		Order:      append([]PlayerID(nil), r.order...),
		MaxPlayers: r.cfg.MaxPlayers,
		MaxSpeak:   r.cfg.SpeakBudget,
		WolfCount:  r.cfg.WolfCount,
		Genre:      r.genreLabel(),
		GameID:     r.generation,
	}
	result, inResult := r.state.(*resultState)
	for _, id := range r.order {
		p := r.players[id]
		pv := PlayerView{
			ID:             p.ID,
			Name:           p.Name,
			Alive:          p.Alive,
			RemainingSpeak: p.RemainingSpeak,
			Voted:          p.HasVoted(),
		}
		switch st := r.state.(type) {
		case *lobbyState:
			_, pv.Ready = st.ready[id]
		case *submissionState:
			pv.Submitted = r.pool.submitted(id)
			_, pv.Confirmed = st.confirmed[id]
		}
		if inResult {
			if p.VoteTarget != "" {
				vote := p.VoteTarget
				pv.Vote = &vote
			}
			if p.Keyword != "" {
				topic := p.Keyword
				pv.Topic = &topic
			}
			pv.Role = p.Role
		}
		view.Players[id] = pv
	}
	switch st := r.state.(type) {
	case *submissionState:
		view.Submissions = r.pool.count()
	case *discussionState:
		remaining := st.remaining
		view.RemainingTime = &remaining
	case *votingState:
		remaining := st.remaining
		view.VotingTime = &remaining
	}
	if inResult {
		won := result.citizensWon
		view.IsVillagerWin = &won
		rv := &ResultView{
			WolfIDs: append([]PlayerID(nil), result.wolves...),
			Votes:   result.counts,
			Topics:  map[string]string{},
		}
		if len(result.wolves) > 0 {
			rv.WolfID = result.wolves[0]
		}
		if result.executed != "" {
			executed := result.executed
			rv.ExecutedID = &executed
		}
		if r.pool.selected != nil {
			rv.Topics[string(RoleCitizen)] = r.pool.selected.Citizen
			rv.Topics[string(RoleWolf)] = r.pool.selected.Wolf
		}
		view.ResultView = rv
	}
	return view
}

func (r *Room) projectionJSON() string {
	data, err := json.Marshal(r.Projection())
	if err != nil {
		return ""
	}
	return string(data)
}

// PlayerSummary is the roster entry served by /room/players.
type PlayerSummary struct {
	ID    PlayerID `json:"id"`
	Name  string   `json:"name"`
	Alive bool     `json:"alive"`
}

func (r *Room) Players() []PlayerSummary {
	list := make([]PlayerSummary, 0, len(r.order))
	for _, id := range r.order {
		p := r.players[id]
		list = append(list, PlayerSummary{ID: p.ID, Name: p.Name, Alive: p.Alive})
	}
	return list
}

// Remaining reports the active countdown, if any.
func (r *Room) Remaining() (int, bool) {
	switch st := r.state.(type) {
	case *discussionState:
		return st.remaining, true
	case *votingState:
		return st.remaining, true
	default:
		return 0, false
	}
}

// Theme is a player's own keyword and role. ok is false before assignment.
func (r *Room) Theme(pid PlayerID) (keyword string, role Role, ok bool, err error) {
	p, found := r.players[pid]
	if !found {
		return "", RoleNone, false, ErrPlayerNotFound
	}
	if !p.assigned() {
		return "", RoleNone, false, nil
	}
	return p.Keyword, p.Role, true, nil
}

// Summary is the room-list entry.
type Summary struct {
	ID         RoomID `json:"id"`
	Name       string `json:"name"`
	Phase      Phase  `json:"phase"`
	Players    int    `json:"players"`
	MaxPlayers int    `json:"max_players"`
	WolfCount  int    `json:"wolf_count"`
	Genre      string `json:"genre"`
}

func (r *Room) Summary() Summary {
	return Summary{
		ID:         r.id,
		Name:       r.cfg.Name,
		Phase:      r.state.phase(),
		Players:    len(r.players),
		MaxPlayers: r.cfg.MaxPlayers,
		WolfCount:  r.cfg.WolfCount,
		Genre:      r.genreLabel(),
	}
}

func sortedIDs(set map[PlayerID]struct{}) []PlayerID {
	ids := make([]PlayerID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
