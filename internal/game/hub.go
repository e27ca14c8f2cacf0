package game

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Sink is one client's push stream. Offer must never block: a false return
// marks the sink dead.
type Sink interface {
	Offer(msg string) bool
	Close()
}

type subscriber struct {
	sink  Sink
	owner PlayerID
}

// Hub fans messages out to the sinks of one room. It has no lock of its own;
// every call happens under the room lock, which is what keeps each sink FIFO.
type Hub struct {
	roomID RoomID
	subs   []subscriber
}

func newHub(roomID RoomID) *Hub {
	return &Hub{roomID: roomID}
}

// Subscribe registers a sink. owner may be empty for anonymous viewers.
func (h *Hub) Subscribe(sink Sink, owner PlayerID) {
	h.subs = append(h.subs, subscriber{sink: sink, owner: owner})
}

// Unsubscribe removes and closes a sink; unknown sinks are ignored.
func (h *Hub) Unsubscribe(sink Sink) {
	for i, sub := range h.subs {
		if sub.sink == sink {
			h.subs = append(h.subs[:i], h.subs[i+1:]...)
			sink.Close()
			return
		}
	}
}

// Broadcast offers msg to every sink, pruning the ones that refuse it.
func (h *Hub) Broadcast(msg string) int {
	return h.deliver(msg, func(subscriber) bool { return true })
}

// SendTo offers msg only to sinks owned by pid.
func (h *Hub) SendTo(pid PlayerID, msg string) int {
	if pid == "" {
		return 0
	}
	return h.deliver(msg, func(sub subscriber) bool { return sub.owner == pid })
}

func (h *Hub) deliver(msg string, match func(subscriber) bool) int {
	delivered := 0
	kept := h.subs[:0]
	for _, sub := range h.subs {
		if !match(sub) {
			kept = append(kept, sub)
			continue
		}
		if !sub.sink.Offer(msg) {
			sub.sink.Close()
			log.Debug().Str("room_id", string(h.roomID)).Str("player_id", string(sub.owner)).Msg("sink pruned")
			continue
		}
		delivered++
		kept = append(kept, sub)
	}
	for i := len(kept); i < len(h.subs); i++ {
		h.subs[i] = subscriber{}
	}
	h.subs = kept
	return delivered
}

func (h *Hub) Len() int {
	return len(h.subs)
}

// CloseAll closes and forgets every sink.
func (h *Hub) CloseAll() {
	for _, sub := range h.subs {
		sub.sink.Close()
	}
	h.subs = nil
}

// ChanSink is a Sink backed by a buffered channel. Transports drain C and
// call Close when the client goes away.
type ChanSink struct {
	mu     sync.Mutex
	ch     chan string
	closed bool
}

func NewChanSink(buffer int) *ChanSink {
	if buffer < 1 {
		buffer = 1
	}
	return &ChanSink{ch: make(chan string, buffer)}
}

func (s *ChanSink) Offer(msg string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.ch <- msg:
		return true
	default:
		return false
	}
}

func (s *ChanSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}

// C yields queued messages and is closed once the sink is closed.
func (s *ChanSink) C() <-chan string {
	return s.ch
}
