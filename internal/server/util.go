package server

import (
	"crypto/rand"

	"github.com/google/uuid"
)

// newRoomID returns a short code that is easy to read out loud.
func newRoomID() string {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return uuid.NewString()[:8]
	}
	for i := range buf {
		buf[i] = alphabet[int(buf[i])%len(alphabet)]
	}
	return string(buf)
}

func newPlayerID() string {
	return uuid.NewString()
}
