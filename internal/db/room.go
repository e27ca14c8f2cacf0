package db

import "time"

// Room is the archived description of a room. RoomKey is the public room id.
type Room struct {
	ID         uint       `gorm:"primaryKey"`
	RoomKey    string     `gorm:"size:64;uniqueIndex;not null"`
	Name       string     `gorm:"size:64;not null"`
	MaxPlayers int        `gorm:"not null"`
	WolfCount  int        `gorm:"not null"`
	Genre      string     `gorm:"size:32;not null"`
	CreatedAt  time.Time  `gorm:"not null"`
	UpdatedAt  time.Time  `gorm:"not null"`
	ClosedAt   *time.Time `gorm:"index"`
	Events     []Event
	Results    []GameResult
}
