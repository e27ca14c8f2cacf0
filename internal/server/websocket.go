package server

import (
	"time"

	"word-wolf/internal/game"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
)

// handleWebsocket serves the same push stream as /events, one text frame per
// message. Clients never send anything meaningful; reads only detect hangups.
func (s *Server) handleWebsocket(c *gin.Context) {
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

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Debug().Err(err).Str("room_id", req.RoomID).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()
	log.Debug().Str("room_id", req.RoomID).Str("player_id", req.PlayerID).Str("remote", c.Request.RemoteAddr).Msg("ws connected")

	closed := make(chan struct{})
	go readWS(conn, closed)

	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()
	for {
		select {
		case msg, ok := <-sink.C():
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			log.Debug().Str("room_id", req.RoomID).Str("player_id", req.PlayerID).Msg("ws disconnected")
			return
		}
	}
}

func readWS(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
