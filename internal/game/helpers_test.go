package game

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// recordSink keeps everything it was offered.
type recordSink struct {
	mu     sync.Mutex
	msgs   []string
	closed bool
	reject bool
}

func (s *recordSink) Offer(msg string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.reject {
		return false
	}
	s.msgs = append(s.msgs, msg)
	return true
}

func (s *recordSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *recordSink) messages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.msgs...)
}

func (s *recordSink) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// states decodes every projection the sink received.
func (s *recordSink) states(t *testing.T) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, msg := range s.messages() {
		if !strings.HasPrefix(msg, "{") {
			continue
		}
		var decoded map[string]any
		require.NoError(t, json.Unmarshal([]byte(msg), &decoded))
		if decoded["type"] == "state" {
			out = append(out, decoded)
		}
	}
	return out
}

func (s *recordSink) lastState(t *testing.T) map[string]any {
	t.Helper()
	states := s.states(t)
	require.NotEmpty(t, states)
	return states[len(states)-1]
}

func (s *recordSink) topics() []string {
	var out []string
	for _, msg := range s.messages() {
		var decoded struct {
			Type  string `json:"type"`
			Topic string `json:"topic"`
		}
		if json.Unmarshal([]byte(msg), &decoded) == nil && decoded.Type == "your_topic" {
			out = append(out, decoded.Topic)
		}
	}
	return out
}

func testConfig(discussion, voting int) RoomConfig {
	cfg := DefaultRoomConfig("テストルーム")
	cfg.MaxPlayers = 3
	cfg.WolfCount = 1
	cfg.DiscussionSeconds = discussion
	cfg.VotingSeconds = voting
	return cfg
}

func newTestRegistry(ctx context.Context, opts ...Option) *Registry {
	opts = append([]Option{WithRand(NewSeededRand(7))}, opts...)
	return NewRegistry(ctx, opts...)
}

func do(t *testing.T, reg *Registry, id RoomID, op func(*Room) error) {
	t.Helper()
	require.NoError(t, reg.WithRoom(id, op))
}

// joinAndReady seats p1..pN and marks each ready.
func joinAndReady(t *testing.T, reg *Registry, id RoomID, ids ...PlayerID) {
	t.Helper()
	for _, pid := range ids {
		do(t, reg, id, func(r *Room) error { return r.Join(pid, "name-"+string(pid)) })
	}
	for _, pid := range ids {
		do(t, reg, id, func(r *Room) error { return r.MarkReady(pid) })
	}
}

func submitAll(t *testing.T, reg *Registry, id RoomID, words map[PlayerID]string) {
	t.Helper()
	for _, pid := range []PlayerID{"p1", "p2", "p3"} {
		do(t, reg, id, func(r *Room) error { return r.SubmitKeyword(pid, words[pid]) })
	}
}

func phaseOf(t *testing.T, reg *Registry, id RoomID) Phase {
	t.Helper()
	var phase Phase
	do(t, reg, id, func(r *Room) error {
		phase = r.Phase()
		return nil
	})
	return phase
}
