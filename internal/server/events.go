package server

import (
	"io"
	"net/http"
	"strings"
	"time"

	"word-wolf/internal/game"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const streamKeepAlive = 15 * time.Second

// sseFrame frames one push message as an SSE event. Every line of a
// multi-line message gets its own data prefix.
func sseFrame(msg string) string {
	return "data: " + strings.ReplaceAll(msg, "\n", "\ndata: ") + "\n\n"
}

// subscribe attaches a fresh sink to a room and returns it primed with the
// current state.
func (s *Server) subscribe(roomID game.RoomID, owner game.PlayerID) (*game.ChanSink, error) {
	sink := game.NewChanSink(s.cfg.SSEBufferSize)
	err := s.registry.WithRoom(roomID, func(room *game.Room) error {
		room.Subscribe(sink, owner)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sink, nil
}

func (s *Server) unsubscribe(roomID game.RoomID, sink *game.ChanSink) {
	_ = s.registry.WithRoom(roomID, func(room *game.Room) error {
		room.Unsubscribe(sink)
		return nil
	})
	sink.Close()
}

func (s *Server) handleEvents(c *gin.Context) {
	var req streamQuery
	if !bindQuery(c, &req, nil) {
		return
	}
	roomID := game.RoomID(req.RoomID)
	sink, err := s.subscribe(roomID, game.PlayerID(req.PlayerID))
	if err != nil {
		writeGameError(c, err)
		return
	}
	defer s.unsubscribe(roomID, sink)
	log.Debug().Str("room_id", req.RoomID).Str("player_id", req.PlayerID).Msg("sse connected")

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	keepAlive := time.NewTicker(streamKeepAlive)
	defer keepAlive.Stop()
	done := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-sink.C():
			if !ok {
				return false
			}
			_, err := io.WriteString(w, sseFrame(msg))
			return err == nil
		case <-keepAlive.C:
			_, err := io.WriteString(w, ": keepalive\n\n")
			return err == nil
		case <-done:
			return false
		}
	})
	log.Debug().Str("room_id", req.RoomID).Str("player_id", req.PlayerID).Msg("sse disconnected")
}
