package server

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"word-wolf/internal/db"
	"word-wolf/internal/game"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// archiver writes room events to the database off the request path. Rooms
// hand events over while holding their lock, so Record only queues.
type archiver struct {
	db     *gorm.DB
	queue  chan game.Event
	roomDB map[game.RoomID]uint
}

func newArchiver(conn *gorm.DB, size int) *archiver {
	if conn == nil {
		return nil
	}
	if size < 1 {
		size = 1
	}
	return &archiver{
		db:     conn,
		queue:  make(chan game.Event, size),
		roomDB: make(map[game.RoomID]uint),
	}
}

func (a *archiver) Record(event game.Event) {
	select {
	case a.queue <- event:
	default:
		log.Warn().Str("room_id", string(event.RoomID)).Str("type", event.Type).Msg("archive queue full; event dropped")
	}
}

// run drains the queue until ctx is done, then flushes what is left.
func (a *archiver) run(ctx context.Context) {
	for {
		select {
		case event := <-a.queue:
			a.persist(event)
		case <-ctx.Done():
			for {
				select {
				case event := <-a.queue:
					a.persist(event)
				default:
					return
				}
			}
		}
	}
}

func (a *archiver) persist(event game.Event) {
	if err := a.persistEvent(event); err != nil {
		log.Error().Err(err).Str("room_id", string(event.RoomID)).Str("type", event.Type).Msg("archive event failed")
	}
}

func (a *archiver) persistEvent(event game.Event) error {
	if event.Type == game.EventRoomCreated {
		if err := a.persistRoom(event); err != nil {
			return err
		}
	}
	roomID, err := a.ensureRoomDBID(event.RoomID)
	if err != nil {
		return err
	}
	data, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}
	if event.Payload == nil {
		data = []byte("{}")
	}
	record := db.Event{
		RoomID:     roomID,
		Generation: int64(event.Generation),
		Type:       event.Type,
		Payload:    datatypes.JSON(data),
		CreatedAt:  event.At,
	}
	if err := a.db.Create(&record).Error; err != nil {
		return err
	}
	switch event.Type {
	case game.EventGameFinished:
		return a.persistResult(roomID, event)
	case game.EventRoomDeleted:
		delete(a.roomDB, event.RoomID)
		return a.db.Model(&db.Room{}).Where("id = ?", roomID).Update("closed_at", event.At).Error
	}
	return nil
}

// persistRoom stores a newly created room. A room id reused after a restart
// keeps its row and history.
func (a *archiver) persistRoom(event game.Event) error {
	record := db.Room{
		RoomKey:    string(event.RoomID),
		Name:       payloadString(event.Payload, "name"),
		MaxPlayers: payloadInt(event.Payload, "max_players"),
		WolfCount:  payloadInt(event.Payload, "wolf_count"),
		Genre:      payloadString(event.Payload, "genre"),
		CreatedAt:  event.At,
		UpdatedAt:  event.At,
	}
	if err := a.db.Create(&record).Error; err != nil {
		if !isUniqueViolation(err) {
			return err
		}
		var existing db.Room
		if err := a.db.Where("room_key = ?", record.RoomKey).First(&existing).Error; err != nil {
			return err
		}
		updates := map[string]any{
			"name":        record.Name,
			"max_players": record.MaxPlayers,
			"wolf_count":  record.WolfCount,
			"genre":       record.Genre,
			"closed_at":   nil,
		}
		if err := a.db.Model(&existing).Updates(updates).Error; err != nil {
			return err
		}
		a.roomDB[event.RoomID] = existing.ID
		return nil
	}
	a.roomDB[event.RoomID] = record.ID
	return nil
}

func (a *archiver) ensureRoomDBID(id game.RoomID) (uint, error) {
	if dbID, ok := a.roomDB[id]; ok {
		return dbID, nil
	}
	var record db.Room
	if err := a.db.Where("room_key = ?", string(id)).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, errors.New("room not archived")
		}
		return 0, err
	}
	a.roomDB[id] = record.ID
	return record.ID, nil
}

func (a *archiver) persistResult(roomID uint, event game.Event) error {
	wolves, err := json.Marshal(event.Payload["wolves"])
	if err != nil {
		return err
	}
	votes, err := json.Marshal(event.Payload["votes"])
	if err != nil {
		return err
	}
	won, _ := event.Payload["citizens_won"].(bool)
	result := db.GameResult{
		RoomID:      roomID,
		Generation:  int64(event.Generation),
		CitizenWord: payloadString(event.Payload, "citizen_word"),
		WolfWord:    payloadString(event.Payload, "wolf_word"),
		Wolves:      datatypes.JSON(wolves),
		ExecutedID:  payloadString(event.Payload, "executed"),
		CitizensWon: won,
		Votes:       datatypes.JSON(votes),
		Players:     payloadInt(event.Payload, "players"),
		Reason:      payloadString(event.Payload, "reason"),
		FinishedAt:  event.At,
	}
	return a.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&result).Error
}

func payloadString(payload map[string]any, key string) string {
	value, _ := payload[key].(string)
	return value
}

func payloadInt(payload map[string]any, key string) int {
	value, _ := payload[key].(int)
	return value
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

type historyView struct {
	Generation  int64           `json:"game_id"`
	CitizenWord string          `json:"citizen_word"`
	WolfWord    string          `json:"wolf_word"`
	Wolves      json.RawMessage `json:"wolf_ids"`
	ExecutedID  string          `json:"executed_id"`
	CitizensWon bool            `json:"is_villager_win"`
	Votes       json.RawMessage `json:"votes"`
	Players     int             `json:"players"`
	Reason      string          `json:"reason"`
	FinishedAt  time.Time       `json:"finished_at"`
}

func historyViews(results []db.GameResult) []historyView {
	views := make([]historyView, 0, len(results))
	for _, result := range results {
		views = append(views, historyView{
			Generation:  result.Generation,
			CitizenWord: result.CitizenWord,
			WolfWord:    result.WolfWord,
			Wolves:      json.RawMessage(result.Wolves),
			ExecutedID:  result.ExecutedID,
			CitizensWon: result.CitizensWon,
			Votes:       json.RawMessage(result.Votes),
			Players:     result.Players,
			Reason:      result.Reason,
			FinishedAt:  result.FinishedAt,
		})
	}
	return views
}
