package db

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GameResult is one finished game. Generation identifies the game within its room.
type GameResult struct {
	ID          uint           `gorm:"primaryKey"`
	RoomID      uint           `gorm:"index;not null;uniqueIndex:idx_results_room_generation"`
	Generation  int64          `gorm:"not null;uniqueIndex:idx_results_room_generation"`
	CitizenWord string         `gorm:"size:64;not null"`
	WolfWord    string         `gorm:"size:64;not null"`
	Wolves      datatypes.JSON `gorm:"type:jsonb;not null"`
	ExecutedID  string         `gorm:"size:64"`
	CitizensWon bool           `gorm:"not null;default:false"`
	Votes       datatypes.JSON `gorm:"type:jsonb;not null"`
	Players     int            `gorm:"not null"`
	Reason      string         `gorm:"size:16;not null"`
	FinishedAt  time.Time      `gorm:"not null"`
}

// RecentResults returns the newest results for a room key, newest first.
func RecentResults(conn *gorm.DB, roomKey string, limit int) ([]GameResult, error) {
	if conn == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	var results []GameResult
	err := conn.
		Joins("JOIN rooms ON rooms.id = game_results.room_id").
		Where("rooms.room_key = ?", roomKey).
		Order("game_results.finished_at DESC").
		Limit(limit).
		Find(&results).Error
	return results, err
}
