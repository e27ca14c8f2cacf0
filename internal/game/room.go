package game

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
)

const (
	maxNameLength = 20
	maxChatLength = 200
)

// Room is the coordinator for one game room. Every method except with
// expects the caller to hold the room lock, which Registry.WithRoom takes.
type Room struct {
	mu       sync.Mutex
	poisoned bool
	retired  bool

	ctx        context.Context
	id         RoomID
	cfg        RoomConfig
	createdAt  time.Time
	lastActive time.Time

	players map[PlayerID]*Player
	order   []PlayerID
	pool    *keywordPool
	state   roundState
	genre   string

	generation uint64
	hub        *Hub
	rng        *rand.Rand
	recorder   Recorder
}

func newRoom(ctx context.Context, id RoomID, cfg RoomConfig, rng *rand.Rand, recorder Recorder) *Room {
	now := time.Now()
	return &Room{
		ctx:        ctx,
		id:         id,
		cfg:        cfg,
		createdAt:  now,
		lastActive: now,
		players:    make(map[PlayerID]*Player),
		pool:       newKeywordPool(cfg.Policy),
		state:      newLobbyState(),
		generation: uint64(rng.Uint32()),
		hub:        newHub(id),
		rng:        rng,
		recorder:   recorder,
	}
}

// with runs fn under the room lock. A panic inside fn poisons the room: it is
// logged and reported as ErrInternal, and later callers carry on with a
// warning.
func (r *Room) with(fn func(*Room) error) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.poisoned {
		log.Warn().Str("room_id", string(r.id)).Msg("room lock poisoned; continuing with current state")
	}
	defer func() {
		if rec := recover(); rec != nil {
			r.poisoned = true
			log.Warn().Str("room_id", string(r.id)).Interface("panic", rec).Msg("panic while holding room lock")
			err = ErrInternal
		}
	}()
	return fn(r)
}

func (r *Room) ID() RoomID           { return r.id }
func (r *Room) Config() RoomConfig   { return r.cfg }
func (r *Room) Phase() Phase         { return r.state.phase() }
func (r *Room) Generation() uint64   { return r.generation }
func (r *Room) Hub() *Hub            { return r.hub }
func (r *Room) CreatedAt() time.Time { return r.createdAt }

func (r *Room) Player(pid PlayerID) (*Player, bool) {
	p, ok := r.players[pid]
	return p, ok
}

// PlayerByName resolves a display name to an id.
func (r *Room) PlayerByName(name string) (PlayerID, bool) {
	for _, id := range r.order {
		if r.players[id].Name == name {
			return id, true
		}
	}
	return "", false
}

// Subscribe attaches a sink and primes it with the current projection, plus
// the owner's keyword if one has been dealt.
func (r *Room) Subscribe(sink Sink, owner PlayerID) {
	if !sink.Offer(r.projectionJSON()) {
		sink.Close()
		return
	}
	if p, ok := r.players[owner]; ok && p.assigned() {
		if !sink.Offer(topicMessage(p.Keyword)) {
			sink.Close()
			return
		}
	}
	r.hub.Subscribe(sink, owner)
}

func (r *Room) Unsubscribe(sink Sink) {
	r.hub.Unsubscribe(sink)
}

func (r *Room) Join(pid PlayerID, name string) error {
	if _, ok := r.state.(*lobbyState); !ok {
		return ErrInvalidPhase
	}
	name = strings.TrimSpace(name)
	if pid == "" || name == "" {
		return invalidInput("名前を入力してください")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return invalidInput(fmt.Sprintf("名前は%d文字以内にしてください", maxNameLength))
	}
	if other, ok := r.PlayerByName(name); ok && other != pid {
		return invalidInput("その名前は既に使われています")
	}
	if p, ok := r.players[pid]; ok {
		p.Name = name
		r.broadcastState()
		return nil
	}
	if len(r.players) >= r.cfg.MaxPlayers {
		return ErrRoomFull
	}
	r.players[pid] = newPlayer(pid, name)
	r.order = append(r.order, pid)
	log.Info().Str("room_id", string(r.id)).Str("player_id", string(pid)).Int("players", len(r.players)).Msg("player joined")
	r.broadcastState()
	return nil
}

func (r *Room) Leave(pid PlayerID) error {
	st, ok := r.state.(*lobbyState)
	if !ok {
		return ErrInvalidPhase
	}
	if _, ok := r.players[pid]; !ok {
		return ErrPlayerNotFound
	}
	delete(r.players, pid)
	delete(st.ready, pid)
	for i, id := range r.order {
		if id == pid {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	log.Info().Str("room_id", string(r.id)).Str("player_id", string(pid)).Msg("player left")
	if len(r.players) > 0 && len(st.ready) == len(r.players) && len(r.players) > r.cfg.WolfCount {
		r.enterSubmission()
		return nil
	}
	r.broadcastState()
	return nil
}

func (r *Room) MarkReady(pid PlayerID) error {
	st, ok := r.state.(*lobbyState)
	if !ok {
		return ErrInvalidPhase
	}
	if _, ok := r.players[pid]; !ok {
		return ErrPlayerNotFound
	}
	if _, already := st.ready[pid]; already {
		return nil
	}
	st.ready[pid] = struct{}{}
	if len(st.ready) < len(r.players) {
		r.broadcastState()
		return nil
	}
	if len(r.players) <= r.cfg.WolfCount {
		r.notice(shortfallNotice(r.id, len(r.players), r.cfg.WolfCount))
		r.broadcastState()
		return nil
	}
	r.enterSubmission()
	return nil
}

func (r *Room) SubmitKeyword(pid PlayerID, word string) error {
	st, ok := r.state.(*submissionState)
	if !ok || st.assigned {
		return ErrInvalidPhase
	}
	if _, ok := r.players[pid]; !ok {
		return ErrPlayerNotFound
	}
	if _, err := r.pool.submit(pid, word); err != nil {
		return err
	}
	pair, drawn, err := r.pool.tryDraw(r.pool.expected, r.rng)
	if err != nil {
		log.Info().Str("room_id", string(r.id)).Uint64("generation", r.generation).Msg("keyword draw failed; resubmission required")
		r.notice(insufficientNotice)
		r.broadcastState()
		return err
	}
	if !drawn {
		r.notice(submissionProgressNotice(r.pool.count(), r.pool.expected))
		r.broadcastState()
		return nil
	}
	r.assignRoles(pair)
	if r.cfg.ConfirmKeywords {
		st.assigned = true
		r.notice(confirmNotice)
		r.broadcastState()
		return nil
	}
	r.enterDiscussion(time.Now())
	return nil
}

func (r *Room) ConfirmKeyword(pid PlayerID) error {
	st, ok := r.state.(*submissionState)
	if !ok || !st.assigned {
		return ErrInvalidPhase
	}
	if _, ok := r.players[pid]; !ok {
		return ErrPlayerNotFound
	}
	if _, already := st.confirmed[pid]; already {
		return nil
	}
	st.confirmed[pid] = struct{}{}
	if len(st.confirmed) < len(r.players) {
		r.broadcastState()
		return nil
	}
	r.enterDiscussion(time.Now())
	return nil
}

func (r *Room) Speak(pid PlayerID) error {
	if _, ok := r.state.(*discussionState); !ok {
		return ErrInvalidPhase
	}
	p, ok := r.players[pid]
	if !ok {
		return ErrPlayerNotFound
	}
	if p.RemainingSpeak <= 0 {
		return ErrNoSpeakCredits
	}
	p.RemainingSpeak--
	r.broadcastState()
	return nil
}

func (r *Room) Chat(pid PlayerID, text string) error {
	if _, ok := r.state.(*discussionState); !ok {
		return ErrInvalidPhase
	}
	p, ok := r.players[pid]
	if !ok {
		return newError(ErrPlayerNotFound.Code, "参加してから発言してください")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return invalidInput("メッセージを入力してください")
	}
	if utf8.RuneCountInString(text) > maxChatLength {
		return invalidInput("メッセージが長すぎます")
	}
	r.hub.Broadcast(chatMessage(p.Name, text))
	return nil
}

func (r *Room) StartVote() error {
	if _, ok := r.state.(*discussionState); !ok {
		return ErrInvalidPhase
	}
	r.enterVoting(time.Now(), "manual")
	return nil
}

func (r *Room) Vote(voter, target PlayerID) error {
	if _, ok := r.state.(*votingState); !ok {
		return ErrInvalidPhase
	}
	p, ok := r.players[voter]
	if !ok || !p.Alive {
		return newError(ErrPlayerNotFound.Code, "参加してから投票してください")
	}
	if _, ok := r.players[target]; !ok {
		return newError(ErrPlayerNotFound.Code, "投票先のプレイヤーが見つかりません")
	}
	p.VoteTarget = target
	for _, other := range r.players {
		if other.Alive && !other.HasVoted() {
			r.broadcastState()
			return nil
		}
	}
	r.finish("quorum")
	return nil
}

// Reset starts a new game instance from any phase: players are removed and
// pending timers are retired by the generation bump.
func (r *Room) Reset() {
	r.generation++
	r.players = make(map[PlayerID]*Player)
	r.order = nil
	r.pool.reset(0)
	r.genre = ""
	r.state = newLobbyState()
	log.Info().Str("room_id", string(r.id)).Uint64("generation", r.generation).Msg("room reset")
	r.record(EventRoomReset, nil)
	r.notice(resetNotice)
	r.broadcastState()
}

// retire is called when the registry drops the room.
func (r *Room) retire() {
	r.retired = true
	r.generation++
	r.record(EventRoomDeleted, nil)
	r.hub.CloseAll()
}

func (r *Room) enterSubmission() {
	r.setState(newSubmissionState())
	r.generation++
	for _, p := range r.players {
		p.clearRound()
	}
	r.pool.reset(len(r.players))
	r.genre = resolveGenre(r.cfg.Genre, r.cfg.CustomGenre, r.rng)
	log.Info().Str("room_id", string(r.id)).Uint64("generation", r.generation).Int("players", len(r.players)).Str("genre", r.genre).Msg("game started")
	r.record(EventGameStarted, map[string]any{"players": len(r.players), "genre": r.genre})
	r.notice(submissionStartNotice(len(r.players), r.genre))
	r.broadcastState()
}

// assignRoles picks WolfCount distinct wolves uniformly and deals keywords,
// sending each player their word privately.
func (r *Room) assignRoles(pair wordPair) {
	wolves := make(map[PlayerID]struct{}, r.cfg.WolfCount)
	for _, idx := range r.rng.Perm(len(r.order))[:r.cfg.WolfCount] {
		wolves[r.order[idx]] = struct{}{}
	}
	for _, id := range r.order {
		word, _ := r.pool.wordFor(id, wolves)
		role := RoleCitizen
		if _, ok := wolves[id]; ok {
			role = RoleWolf
		}
		r.players[id].assign(role, word)
		r.hub.SendTo(id, topicMessage(word))
	}
	r.record(EventKeywordsDrawn, map[string]any{
		"citizen_word": pair.Citizen,
		"wolf_word":    pair.Wolf,
		"wolves":       sortedIDs(wolves),
	})
}

func (r *Room) enterDiscussion(now time.Time) {
	r.setState(&discussionState{startedAt: now, remaining: r.cfg.DiscussionSeconds})
	for _, p := range r.players {
		p.RemainingSpeak = r.cfg.SpeakBudget
	}
	r.record(EventDiscussionStarted, map[string]any{"seconds": r.cfg.DiscussionSeconds})
	r.notice(discussionNotice(r.cfg.DiscussionSeconds))
	r.armTimer(PhaseDiscussion)
	r.broadcastState()
}

func (r *Room) enterVoting(now time.Time, reason string) {
	r.setState(&votingState{startedAt: now, remaining: r.cfg.VotingSeconds})
	for _, p := range r.players {
		p.VoteTarget = ""
	}
	log.Info().Str("room_id", string(r.id)).Uint64("generation", r.generation).Str("reason", reason).Msg("voting started")
	r.record(EventVotingStarted, map[string]any{"reason": reason})
	r.notice(votingNotice)
	r.armTimer(PhaseVoting)
	r.broadcastState()
}

func (r *Room) finish(reason string) {
	executed, counts := tallyVotes(r.players)
	wolves := r.wolfIDs()
	won := false
	for _, id := range wolves {
		if id == executed {
			won = true
		}
	}
	r.setState(&resultState{wolves: wolves, executed: executed, citizensWon: won, counts: counts})
	log.Info().Str("room_id", string(r.id)).Uint64("generation", r.generation).Str("executed", string(executed)).Bool("citizens_won", won).Str("reason", reason).Msg("game finished")
	payload := map[string]any{
		"wolves":       wolves,
		"executed":     string(executed),
		"citizens_won": won,
		"votes":        counts,
		"reason":       reason,
		"players":      len(r.players),
	}
	if r.pool.selected != nil {
		payload["citizen_word"] = r.pool.selected.Citizen
		payload["wolf_word"] = r.pool.selected.Wolf
	}
	r.record(EventGameFinished, payload)
	if p, ok := r.players[executed]; ok {
		r.notice(executedNotice(p.Name, counts[executed]))
	}
	if won {
		r.notice(citizensWinNotice)
	} else {
		r.notice(wolvesWinNotice)
	}
	names := make([]string, 0, len(wolves))
	for _, id := range wolves {
		names = append(names, r.players[id].Name)
	}
	r.notice(wolvesRevealNotice(names))
	r.broadcastState()
}

func (r *Room) setState(next roundState) {
	from := r.state.phase()
	if !canAdvance(from, next.phase()) {
		panic(fmt.Sprintf("illegal phase transition %s -> %s", from, next.phase()))
	}
	r.state = next
}

func (r *Room) wolfIDs() []PlayerID {
	set := make(map[PlayerID]struct{})
	for id, p := range r.players {
		if p.IsWolf() {
			set[id] = struct{}{}
		}
	}
	return sortedIDs(set)
}

func (r *Room) genreLabel() string {
	if r.genre != "" {
		return r.genre
	}
	return r.cfg.Genre.Label(r.cfg.CustomGenre)
}

func (r *Room) broadcastState() {
	if msg := r.projectionJSON(); msg != "" {
		r.hub.Broadcast(msg)
	}
}

func (r *Room) notice(text string) {
	r.hub.Broadcast(noticeMessage(text))
}

func (r *Room) record(kind string, payload map[string]any) {
	r.recorder.Record(Event{
		RoomID:     r.id,
		Generation: r.generation,
		Type:       kind,
		Payload:    payload,
		At:         time.Now().UTC(),
	})
}
