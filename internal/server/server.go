package server

import (
	"context"
	"net/http"
	"time"

	"word-wolf/internal/config"
	"word-wolf/internal/game"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

type Server struct {
	registry    *game.Registry
	db          *gorm.DB
	archive     *archiver
	cfg         config.Config
	chatLimiter *rateLimiter
	roomLimiter *rateLimiter
	upgrader    websocket.Upgrader
}

// New builds a server whose rooms live until ctx is done. conn may be nil, in
// which case nothing is archived.
func New(ctx context.Context, conn *gorm.DB, cfg config.Config) *Server {
	archive := newArchiver(conn, cfg.ArchiveQueueSize)
	opts := []game.Option{}
	if archive != nil {
		opts = append(opts, game.WithRecorder(archive))
	}
	if cfg.RoomIdleMinutes > 0 {
		opts = append(opts, game.WithIdleTimeout(time.Duration(cfg.RoomIdleMinutes)*time.Minute))
	}
	s := &Server{
		registry:    game.NewRegistry(ctx, opts...),
		db:          conn,
		archive:     archive,
		cfg:         cfg,
		chatLimiter: newRateLimiter(rate.Limit(cfg.ChatRatePerSecond), cfg.ChatBurst),
		roomLimiter: newRateLimiter(rate.Limit(float64(cfg.CreateRatePerMinute)/60), cfg.CreateRatePerMinute),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.originAllowed,
	}
	registerValidators()
	return s
}

// Start runs the room sweep and the archive worker until ctx is done.
func (s *Server) Start(ctx context.Context) {
	go s.registry.Run(ctx)
	if s.archive != nil {
		go s.archive.run(ctx)
	}
}

func (s *Server) Registry() *game.Registry {
	return s.registry
}

func (s *Server) Handler() http.Handler {
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger())
	engine.Use(cors.New(s.corsConfig()))

	engine.GET("/", s.handleHome)
	engine.GET("/events", s.handleEvents)
	engine.GET("/ws", s.handleWebsocket)
	engine.GET("/room/list", s.handleRoomList)
	engine.GET("/room/state", s.handleRoomState)
	engine.GET("/room/players", s.handleRoomPlayers)
	engine.GET("/room/timer", s.handleRoomTimer)
	engine.GET("/room/genres", s.handleGenres)
	engine.GET("/room/qr", s.handleRoomQR)
	engine.GET("/room/history", s.handleRoomHistory)
	engine.GET("/player/theme", s.handlePlayerTheme)

	engine.POST("/room/create", s.handleCreateRoom)
	engine.POST("/room/join", s.handleJoin)
	engine.POST("/room/leave", s.handleLeave)
	engine.POST("/room/ready", s.handleReady)
	engine.POST("/room/keyword", s.handleSubmitKeyword)
	engine.POST("/room/theme/confirm", s.handleConfirmTheme)
	engine.POST("/room/speak", s.handleSpeak)
	engine.POST("/room/start-vote", s.handleStartVote)
	engine.POST("/room/vote", s.handleVote)
	engine.POST("/room/chat", s.handleChat)
	engine.POST("/room/reset", s.handleReset)
	engine.POST("/room/delete", s.handleDeleteRoom)

	engine.NoRoute(func(c *gin.Context) {
		writeError(c, http.StatusNotFound, "ページが見つかりません")
	})
	return engine
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if allowsAnyOrigin(s.cfg.AllowedOrigins) {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = s.cfg.AllowedOrigins
	}
	return cfg
}

func (s *Server) originAllowed(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || allowsAnyOrigin(s.cfg.AllowedOrigins) {
		return true
	}
	for _, allowed := range s.cfg.AllowedOrigins {
		if allowed == origin {
			return true
		}
	}
	return false
}

func allowsAnyOrigin(origins []string) bool {
	for _, origin := range origins {
		if origin == "*" {
			return true
		}
	}
	return len(origins) == 0
}
