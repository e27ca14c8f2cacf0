package server

import (
	"net/http"

	"word-wolf/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func (s *Server) handleHome(c *gin.Context) {
	roomID := c.Query("room_id")
	if !validIdentifier(roomID, maxRoomIDLength) {
		roomID = ""
	}
	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := web.Home(s.homeSummaries(), roomID).Render(c.Request.Context(), c.Writer); err != nil {
		log.Error().Err(err).Msg("render home failed")
	}
}

func (s *Server) homeSummaries() []web.RoomSummary {
	summaries := s.registry.Summaries()
	rooms := make([]web.RoomSummary, 0, len(summaries))
	for _, summary := range summaries {
		rooms = append(rooms, web.RoomSummary{
			ID:         string(summary.ID),
			Name:       summary.Name,
			Phase:      string(summary.Phase),
			Players:    summary.Players,
			MaxPlayers: summary.MaxPlayers,
			WolfCount:  summary.WolfCount,
			Genre:      summary.Genre,
		})
	}
	return rooms
}
