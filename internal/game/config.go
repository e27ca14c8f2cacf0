package game

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// SubmissionPolicy decides what happens when a player submits a second
// keyword in the same round.
type SubmissionPolicy int

const (
	LastWriteWins SubmissionPolicy = iota
	FirstWriteWins
)

func ParseSubmissionPolicy(raw string) (SubmissionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "last", "last-write-wins":
		return LastWriteWins, nil
	case "first", "first-write-wins":
		return FirstWriteWins, nil
	default:
		return 0, invalidConfig("キーワードの受付方式が不正です: " + raw)
	}
}

func (p SubmissionPolicy) String() string {
	if p == FirstWriteWins {
		return "first"
	}
	return "last"
}

const (
	MinPlayers    = 3
	maxRoomName   = 40
	maxCustomName = 20
)

// RoomConfig is fixed for the lifetime of a room.
type RoomConfig struct {
	Name              string
	MaxPlayers        int
	WolfCount         int
	Genre             Genre
	CustomGenre       string
	DiscussionSeconds int
	VotingSeconds     int
	SpeakBudget       int
	Policy            SubmissionPolicy
	ConfirmKeywords   bool
}

// DefaultRoomConfig mirrors the create form defaults.
func DefaultRoomConfig(name string) RoomConfig {
	return RoomConfig{
		Name:              name,
		MaxPlayers:        4,
		WolfCount:         1,
		Genre:             GenreFood,
		DiscussionSeconds: 180,
		VotingSeconds:     10,
		SpeakBudget:       3,
		Policy:            LastWriteWins,
	}
}

// MaxWolves is the largest wolf count that keeps wolves a strict minority.
func MaxWolves(maxPlayers int) int {
	return (maxPlayers - 1) / 2
}

func (c RoomConfig) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return invalidConfig("部屋名を入力してください")
	}
	if utf8.RuneCountInString(c.Name) > maxRoomName {
		return invalidConfig(fmt.Sprintf("部屋名は%d文字以内にしてください", maxRoomName))
	}
	if c.MaxPlayers < MinPlayers {
		return invalidConfig(fmt.Sprintf("最低%d人必要です", MinPlayers))
	}
	if c.WolfCount < 1 {
		return invalidConfig("最低1人のワードウルフが必要です")
	}
	if limit := MaxWolves(c.MaxPlayers); c.WolfCount > limit {
		return invalidConfig(fmt.Sprintf("%d人部屋では最大%d人のワードウルフまでです（少数派を保つため）", c.MaxPlayers, limit))
	}
	if _, ok := genreLabels[c.Genre]; !ok && c.Genre != GenreCustom {
		return invalidConfig("ジャンルが不正です: " + string(c.Genre))
	}
	if utf8.RuneCountInString(c.CustomGenre) > maxCustomName {
		return invalidConfig(fmt.Sprintf("ジャンル名は%d文字以内にしてください", maxCustomName))
	}
	if c.DiscussionSeconds <= 0 {
		return invalidConfig("議論時間は1秒以上にしてください")
	}
	if c.VotingSeconds <= 0 {
		return invalidConfig("投票時間は1秒以上にしてください")
	}
	if c.SpeakBudget < 1 {
		return invalidConfig("発言回数は1回以上にしてください")
	}
	return nil
}
