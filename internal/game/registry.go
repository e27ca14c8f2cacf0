package game

import (
	"context"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const sweepInterval = time.Second

// Registry maps room ids to rooms. Lock order is registry then room; the
// registry lock is always released before a room lock is taken.
type Registry struct {
	mu        sync.RWMutex
	rooms     map[RoomID]*Room
	ctx       context.Context
	rng       *rand.Rand
	recorder  Recorder
	idleAfter time.Duration
}

type Option func(*Registry)

// WithRand replaces the shared generator, mostly for tests.
func WithRand(rng *rand.Rand) Option {
	return func(r *Registry) { r.rng = rng }
}

func WithRecorder(rec Recorder) Option {
	return func(r *Registry) {
		if rec != nil {
			r.recorder = rec
		}
	}
}

// WithIdleTimeout makes the sweep drop rooms that stayed empty this long.
func WithIdleTimeout(d time.Duration) Option {
	return func(r *Registry) { r.idleAfter = d }
}

// NewRegistry returns an empty registry. Room timers stop when ctx is done.
func NewRegistry(ctx context.Context, opts ...Option) *Registry {
	reg := &Registry{
		rooms:    make(map[RoomID]*Room),
		ctx:      ctx,
		rng:      sharedRand,
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(reg)
	}
	return reg
}

func (reg *Registry) Create(id RoomID, cfg RoomConfig) error {
	id = RoomID(strings.TrimSpace(string(id)))
	if id == "" {
		return invalidConfig("部屋IDを入力してください")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if _, ok := reg.rooms[id]; ok {
		return ErrAlreadyExists
	}
	room := newRoom(reg.ctx, id, cfg, reg.rng, reg.recorder)
	reg.rooms[id] = room
	room.record(EventRoomCreated, map[string]any{
		"name":        cfg.Name,
		"max_players": cfg.MaxPlayers,
		"wolf_count":  cfg.WolfCount,
		"genre":       string(cfg.Genre),
		"discussion":  cfg.DiscussionSeconds,
		"voting":      cfg.VotingSeconds,
	})
	log.Info().Str("room_id", string(id)).Int("max_players", cfg.MaxPlayers).Int("wolf_count", cfg.WolfCount).Msg("room created")
	return nil
}

func (reg *Registry) Exists(id RoomID) bool {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	_, ok := reg.rooms[id]
	return ok
}

// List returns room ids in sorted order.
func (reg *Registry) List() []RoomID {
	reg.mu.RLock()
	ids := make([]RoomID, 0, len(reg.rooms))
	for id := range reg.rooms {
		ids = append(ids, id)
	}
	reg.mu.RUnlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Summaries describes every room, sorted by id.
func (reg *Registry) Summaries() []Summary {
	ids := reg.List()
	list := make([]Summary, 0, len(ids))
	for _, id := range ids {
		room, ok := reg.lookup(id)
		if !ok {
			continue
		}
		_ = room.with(func(room *Room) error {
			list = append(list, room.Summary())
			return nil
		})
	}
	return list
}

func (reg *Registry) Delete(id RoomID) error {
	reg.mu.Lock()
	room, ok := reg.rooms[id]
	if ok {
		delete(reg.rooms, id)
	}
	reg.mu.Unlock()
	if !ok {
		return ErrRoomNotFound
	}
	_ = room.with(func(room *Room) error {
		room.retire()
		return nil
	})
	log.Info().Str("room_id", string(id)).Msg("room deleted")
	return nil
}

// WithRoom runs op under the room's lock. It is the only way to reach a room.
func (reg *Registry) WithRoom(id RoomID, op func(*Room) error) error {
	room, ok := reg.lookup(id)
	if !ok {
		return ErrRoomNotFound
	}
	return room.withLive(op)
}

// withLive runs op unless the room was retired after the caller found it.
func (r *Room) withLive(op func(*Room) error) error {
	return r.with(func(room *Room) error {
		if room.retired {
			return ErrRoomNotFound
		}
		room.lastActive = time.Now()
		return op(room)
	})
}

func (reg *Registry) lookup(id RoomID) (*Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	room, ok := reg.rooms[id]
	return room, ok
}

// Run sweeps every room once per interval until ctx is done, then closes
// every push stream so transports can return.
func (reg *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			reg.closeStreams()
			return
		case now := <-ticker.C:
			reg.Sweep(now)
		}
	}
}

func (reg *Registry) closeStreams() {
	for _, id := range reg.List() {
		room, ok := reg.lookup(id)
		if !ok {
			continue
		}
		_ = room.with(func(room *Room) error {
			room.hub.CloseAll()
			return nil
		})
	}
}

// Sweep runs the timer watchdog on every room and drops idle ones.
func (reg *Registry) Sweep(now time.Time) {
	var stale []RoomID
	for _, id := range reg.List() {
		room, ok := reg.lookup(id)
		if !ok {
			continue
		}
		idle := false
		_ = room.with(func(room *Room) error {
			room.CheckTimers(now)
			idle = room.idle(now, reg.idleAfter)
			return nil
		})
		if idle {
			stale = append(stale, id)
		}
	}
	for _, id := range stale {
		reg.reapIfIdle(id, now)
	}
}

// reapIfIdle re-checks idleness with both locks held, registry first, so a
// join racing the sweep keeps the room alive.
func (reg *Registry) reapIfIdle(id RoomID, now time.Time) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	room, ok := reg.rooms[id]
	if !ok {
		return
	}
	_ = room.with(func(room *Room) error {
		if !room.idle(now, reg.idleAfter) {
			return nil
		}
		delete(reg.rooms, id)
		room.retire()
		log.Info().Str("room_id", string(id)).Msg("idle room reaped")
		return nil
	})
}
