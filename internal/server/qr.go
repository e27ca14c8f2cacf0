package server

import (
	"net/http"
	"net/url"
	"strings"

	"word-wolf/internal/game"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/skip2/go-qrcode"
)

const qrSize = 320

// joinURL is the link a QR code points at: the home page with the room
// pre-filled.
func (s *Server) joinURL(c *gin.Context, roomID string) string {
	base := strings.TrimRight(s.cfg.PublicBaseURL, "/")
	if base == "" {
		scheme := "http"
		if c.Request.TLS != nil {
			scheme = "https"
		}
		if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}
		base = scheme + "://" + c.Request.Host
	}
	return base + "/?room_id=" + url.QueryEscape(roomID)
}

func (s *Server) handleRoomQR(c *gin.Context) {
	var req roomQuery
	if !bindQuery(c, &req, nil) {
		return
	}
	if !s.registry.Exists(game.RoomID(req.RoomID)) {
		writeGameError(c, game.ErrRoomNotFound)
		return
	}
	png, err := qrcode.Encode(s.joinURL(c, req.RoomID), qrcode.Medium, qrSize)
	if err != nil {
		log.Error().Err(err).Str("room_id", req.RoomID).Msg("qr generation failed")
		writeError(c, http.StatusInternalServerError, "QRコードを生成できませんでした")
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
