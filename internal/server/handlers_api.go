package server

import (
	"net/http"
	"strings"

	"word-wolf/internal/db"
	"word-wolf/internal/game"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func (s *Server) handleRoomList(c *gin.Context) {
	summaries := s.registry.Summaries()
	ids := make([]game.RoomID, 0, len(summaries))
	for _, summary := range summaries {
		ids = append(ids, summary.ID)
	}
	c.JSON(http.StatusOK, gin.H{
		"rooms":   ids,
		"details": summaries,
	})
}

func (s *Server) handleRoomState(c *gin.Context) {
	var req roomQuery
	if !bindQuery(c, &req, nil) {
		return
	}
	var view game.Projection
	err := s.registry.WithRoom(game.RoomID(req.RoomID), func(room *game.Room) error {
		view = room.Projection()
		return nil
	})
	if err != nil {
		writeGameError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) handleRoomPlayers(c *gin.Context) {
	var req roomQuery
	if !bindQuery(c, &req, nil) {
		return
	}
	var players []game.PlayerSummary
	err := s.registry.WithRoom(game.RoomID(req.RoomID), func(room *game.Room) error {
		players = room.Players()
		return nil
	})
	if err != nil {
		writeGameError(c, err)
		return
	}
	c.JSON(http.StatusOK, players)
}

func (s *Server) handleRoomTimer(c *gin.Context) {
	var req roomQuery
	if !bindQuery(c, &req, nil) {
		return
	}
	var remaining *int
	err := s.registry.WithRoom(game.RoomID(req.RoomID), func(room *game.Room) error {
		if value, ok := room.Remaining(); ok {
			remaining = &value
		}
		return nil
	})
	if err != nil {
		writeGameError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"remaining": remaining})
}

func (s *Server) handlePlayerTheme(c *gin.Context) {
	var req themeQuery
	if !bindQuery(c, &req, nil) {
		return
	}
	var (
		keyword string
		role    game.Role
		dealt   bool
	)
	err := s.registry.WithRoom(game.RoomID(req.RoomID), func(room *game.Room) error {
		var err error
		keyword, role, dealt, err = room.Theme(game.PlayerID(req.PlayerID))
		return err
	})
	if err != nil {
		writeGameError(c, err)
		return
	}
	if !dealt {
		c.JSON(http.StatusOK, gin.H{"theme": nil, "role": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"theme":      keyword,
		"role":       role,
		"role_label": role.Label(),
	})
}

func (s *Server) handleGenres(c *gin.Context) {
	type genreView struct {
		ID    game.Genre `json:"id"`
		Label string     `json:"label"`
	}
	genres := make([]genreView, 0, len(game.Genres()))
	for _, g := range game.Genres() {
		genres = append(genres, genreView{ID: g, Label: g.Label("")})
	}
	c.JSON(http.StatusOK, gin.H{"genres": genres})
}

func (s *Server) handleCreateRoom(c *gin.Context) {
	if !s.roomLimiter.allow(c.ClientIP()) {
		writeError(c, http.StatusTooManyRequests, "部屋の作成が多すぎます。しばらく待ってから試してください")
		return
	}
	var req createRoomRequest
	if !bindBody(c, &req, nil) {
		return
	}
	cfg, err := s.roomConfig(req)
	if err != nil {
		writeGameError(c, err)
		return
	}
	roomID := req.RoomID
	if roomID == "" {
		roomID = newRoomID()
	}
	if err := s.registry.Create(game.RoomID(roomID), cfg); err != nil {
		writeGameError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"room_id":   roomID,
		"room_name": cfg.Name,
	})
}

// roomConfig fills the request over the server defaults.
func (s *Server) roomConfig(req createRoomRequest) (game.RoomConfig, error) {
	name := normalizeText(req.RoomName)
	if name == "" {
		name = "ワードウルフ"
	}
	cfg := game.DefaultRoomConfig(name)
	cfg.DiscussionSeconds = s.cfg.DefaultDiscussionSeconds
	cfg.VotingSeconds = s.cfg.DefaultVotingSeconds
	cfg.SpeakBudget = s.cfg.DefaultSpeakBudget
	if req.MaxPlayers != nil {
		cfg.MaxPlayers = *req.MaxPlayers
	}
	if req.WolfCount != nil {
		cfg.WolfCount = *req.WolfCount
	}
	if req.DiscussionTime != nil {
		cfg.DiscussionSeconds = *req.DiscussionTime
	}
	if req.VotingTime != nil {
		cfg.VotingSeconds = *req.VotingTime
	}
	if req.MaxSpeak != nil {
		cfg.SpeakBudget = *req.MaxSpeak
	}
	if req.Genre != "" || req.CustomGenre != "" {
		genre, err := game.ParseGenre(req.Genre)
		if err != nil {
			return cfg, err
		}
		cfg.Genre = genre
	}
	cfg.CustomGenre = strings.TrimSpace(req.CustomGenre)
	policy, err := game.ParseSubmissionPolicy(req.KeywordPolicy)
	if err != nil {
		return cfg, err
	}
	cfg.Policy = policy
	cfg.ConfirmKeywords = req.ConfirmKeywords
	return cfg, cfg.Validate()
}

func (s *Server) handleJoin(c *gin.Context) {
	var req joinRequest
	if !bindBody(c, &req, nil) {
		return
	}
	playerID := req.PlayerID
	if playerID == "" {
		playerID = newPlayerID()
	}
	err := s.registry.WithRoom(game.RoomID(req.RoomID), func(room *game.Room) error {
		return room.Join(game.PlayerID(playerID), normalizeText(req.PlayerName))
	})
	if err != nil {
		writeGameError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"room_id":   req.RoomID,
		"player_id": playerID,
		"player":    normalizeText(req.PlayerName),
	})
}

func (s *Server) handleLeave(c *gin.Context) {
	s.playerCommand(c, func(room *game.Room, pid game.PlayerID) error { return room.Leave(pid) })
}

func (s *Server) handleReady(c *gin.Context) {
	s.playerCommand(c, func(room *game.Room, pid game.PlayerID) error { return room.MarkReady(pid) })
}

func (s *Server) handleConfirmTheme(c *gin.Context) {
	s.playerCommand(c, func(room *game.Room, pid game.PlayerID) error { return room.ConfirmKeyword(pid) })
}

func (s *Server) handleSpeak(c *gin.Context) {
	s.playerCommand(c, func(room *game.Room, pid game.PlayerID) error { return room.Speak(pid) })
}

func (s *Server) playerCommand(c *gin.Context, op func(*game.Room, game.PlayerID) error) {
	var req playerRequest
	if !bindBody(c, &req, nil) {
		return
	}
	err := s.registry.WithRoom(game.RoomID(req.RoomID), func(room *game.Room) error {
		return op(room, game.PlayerID(req.PlayerID))
	})
	if err != nil {
		writeGameError(c, err)
		return
	}
	writeOK(c)
}

func (s *Server) handleSubmitKeyword(c *gin.Context) {
	var req keywordRequest
	if !bindBody(c, &req, keywordMessages) {
		return
	}
	err := s.registry.WithRoom(game.RoomID(req.RoomID), func(room *game.Room) error {
		return room.SubmitKeyword(game.PlayerID(req.PlayerID), req.Keyword)
	})
	if err != nil {
		writeGameError(c, err)
		return
	}
	writeOK(c)
}

func (s *Server) handleStartVote(c *gin.Context) {
	s.roomCommand(c, func(room *game.Room) error { return room.StartVote() })
}

func (s *Server) handleReset(c *gin.Context) {
	s.roomCommand(c, func(room *game.Room) error {
		room.Reset()
		return nil
	})
}

func (s *Server) roomCommand(c *gin.Context, op func(*game.Room) error) {
	var req roomRequest
	if !bindBody(c, &req, nil) {
		return
	}
	if err := s.registry.WithRoom(game.RoomID(req.RoomID), op); err != nil {
		writeGameError(c, err)
		return
	}
	writeOK(c)
}

func (s *Server) handleVote(c *gin.Context) {
	var req voteRequest
	if !bindBody(c, &req, voteMessages) {
		return
	}
	err := s.registry.WithRoom(game.RoomID(req.RoomID), func(room *game.Room) error {
		return room.Vote(game.PlayerID(req.VoterID), game.PlayerID(req.TargetID))
	})
	if err != nil {
		writeGameError(c, err)
		return
	}
	writeOK(c)
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if !bindBody(c, &req, chatMessages) {
		return
	}
	speaker := req.PlayerID
	if speaker == "" {
		speaker = "name:" + normalizeText(req.PlayerName)
	}
	if !s.chatLimiter.allow(req.RoomID + "/" + speaker) {
		writeError(c, http.StatusTooManyRequests, "発言が速すぎます。少し待ってください")
		return
	}
	err := s.registry.WithRoom(game.RoomID(req.RoomID), func(room *game.Room) error {
		pid := game.PlayerID(req.PlayerID)
		if pid == "" {
			var ok bool
			if pid, ok = room.PlayerByName(normalizeText(req.PlayerName)); !ok {
				return &game.Error{Code: game.ErrNotFound.Code, Message: "参加してから発言してください"}
			}
		}
		return room.Chat(pid, req.Message)
	})
	if err != nil {
		writeGameError(c, err)
		return
	}
	writeOK(c)
}

func (s *Server) handleDeleteRoom(c *gin.Context) {
	var req roomRequest
	if !bindBody(c, &req, nil) {
		return
	}
	if err := s.registry.Delete(game.RoomID(req.RoomID)); err != nil {
		writeGameError(c, err)
		return
	}
	writeOK(c)
}

func (s *Server) handleRoomHistory(c *gin.Context) {
	var req roomQuery
	if !bindQuery(c, &req, nil) {
		return
	}
	results, err := db.RecentResults(s.db, req.RoomID, 20)
	if err != nil {
		log.Error().Err(err).Str("room_id", req.RoomID).Msg("load history failed")
		writeError(c, http.StatusInternalServerError, game.ErrInternal.Message)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": historyViews(results)})
}
