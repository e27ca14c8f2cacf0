package game

import "time"

// Event is an audit record emitted on room lifecycle changes.
type Event struct {
	RoomID     RoomID
	Generation uint64
	Type       string
	Payload    map[string]any
	At         time.Time
}

const (
	EventRoomCreated       = "room_created"
	EventGameStarted       = "game_started"
	EventKeywordsDrawn     = "keywords_drawn"
	EventDiscussionStarted = "discussion_started"
	EventVotingStarted     = "voting_started"
	EventGameFinished      = "game_finished"
	EventRoomReset         = "room_reset"
	EventRoomDeleted       = "room_deleted"
)

// Recorder receives events while the room lock is held, so Record must
// return immediately.
type Recorder interface {
	Record(Event)
}

type RecorderFunc func(Event)

func (f RecorderFunc) Record(e Event) { f(e) }

type nopRecorder struct{}

func (nopRecorder) Record(Event) {}
