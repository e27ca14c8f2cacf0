package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

type Config struct {
	BindAddr                 string
	PublicBaseURL            string
	LogLevel                 string
	LogFormat                string
	DefaultDiscussionSeconds int
	DefaultVotingSeconds     int
	DefaultSpeakBudget       int
	SSEBufferSize            int
	ChatRatePerSecond        float64
	ChatBurst                int
	CreateRatePerMinute      int
	AllowedOrigins           []string
	RoomIdleMinutes          int
	ArchiveQueueSize         int
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeSeconds int
}

func Default() Config {
	return Config{
		BindAddr:                 "127.0.0.1:8080",
		PublicBaseURL:            "http://127.0.0.1:8080",
		LogLevel:                 "info",
		LogFormat:                "console",
		DefaultDiscussionSeconds: 180,
		DefaultVotingSeconds:     10,
		DefaultSpeakBudget:       3,
		SSEBufferSize:            32,
		ChatRatePerSecond:        2,
		ChatBurst:                5,
		CreateRatePerMinute:      30,
		AllowedOrigins:           []string{"*"},
		RoomIdleMinutes:          30,
		ArchiveQueueSize:         256,
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           10,
		DBConnMaxLifetimeSeconds: 300,
	}
}

func Load() Config {
	cfg := Default()
	if raw := os.Getenv("BIND_ADDR"); raw != "" {
		cfg.BindAddr = raw
	}
	if raw := os.Getenv("PUBLIC_BASE_URL"); raw != "" {
		cfg.PublicBaseURL = strings.TrimRight(raw, "/")
	}
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		cfg.LogLevel = raw
	}
	if raw := os.Getenv("LOG_FORMAT"); raw != "" {
		cfg.LogFormat = raw
	}
	if raw := os.Getenv("DEFAULT_DISCUSSION_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DefaultDiscussionSeconds = value
		}
	}
	if raw := os.Getenv("DEFAULT_VOTING_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DefaultVotingSeconds = value
		}
	}
	if raw := os.Getenv("DEFAULT_SPEAK_BUDGET"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DefaultSpeakBudget = value
		}
	}
	if raw := os.Getenv("SSE_BUFFER_SIZE"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.SSEBufferSize = value
		}
	}
	if raw := os.Getenv("CHAT_RATE_PER_SECOND"); raw != "" {
		if value, err := strconv.ParseFloat(raw, 64); err == nil && value > 0 {
			cfg.ChatRatePerSecond = value
		}
	}
	if raw := os.Getenv("CHAT_BURST"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.ChatBurst = value
		}
	}
	if raw := os.Getenv("CREATE_RATE_PER_MINUTE"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.CreateRatePerMinute = value
		}
	}
	if raw := os.Getenv("ALLOWED_ORIGINS"); raw != "" {
		var origins []string
		for _, origin := range strings.Split(raw, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
		if len(origins) > 0 {
			cfg.AllowedOrigins = origins
		}
	}
	if raw := os.Getenv("ROOM_IDLE_MINUTES"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value >= 0 {
			cfg.RoomIdleMinutes = value
		}
	}
	if raw := os.Getenv("ARCHIVE_QUEUE_SIZE"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.ArchiveQueueSize = value
		}
	}
	if raw := os.Getenv("DB_MAX_OPEN_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBMaxOpenConns = value
		}
	}
	if raw := os.Getenv("DB_MAX_IDLE_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBMaxIdleConns = value
		}
	}
	if raw := os.Getenv("DB_CONN_MAX_LIFETIME_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBConnMaxLifetimeSeconds = value
		}
	}
	return cfg
}
