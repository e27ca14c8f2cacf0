package server

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	maxRoomIDLength   = 64
	maxPlayerIDLength = 64
	maxNameLength     = 20
	maxKeywordLength  = 30
	maxChatLength     = 200
)

var validatorOnce sync.Once

func registerValidators() {
	validatorOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = engine.RegisterValidation("roomid", func(fl validator.FieldLevel) bool {
			return validIdentifier(fl.Field().String(), maxRoomIDLength)
		})
		_ = engine.RegisterValidation("playerid", func(fl validator.FieldLevel) bool {
			return validIdentifier(fl.Field().String(), maxPlayerIDLength)
		})
		_ = engine.RegisterValidation("playername", func(fl validator.FieldLevel) bool {
			return validName(fl.Field().String())
		})
		_ = engine.RegisterValidation("keyword", func(fl validator.FieldLevel) bool {
			return validText(fl.Field().String(), maxKeywordLength)
		})
		_ = engine.RegisterValidation("chat", func(fl validator.FieldLevel) bool {
			return validText(fl.Field().String(), maxChatLength)
		})
	})
}

// validIdentifier allows ASCII letters, digits, '-' and '_'. Empty values pass
// so optional fields can use it; pair with required where needed.
func validIdentifier(value string, maxLen int) bool {
	if len(value) > maxLen {
		return false
	}
	for _, r := range value {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_' {
			continue
		}
		return false
	}
	return true
}

// validName rejects '|' since it separates fields in chat frames.
func validName(value string) bool {
	trimmed := normalizeText(value)
	if trimmed == "" || strings.ContainsRune(trimmed, '|') {
		return false
	}
	return validText(trimmed, maxNameLength)
}

func validText(value string, maxLen int) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || utf8.RuneCountInString(trimmed) > maxLen {
		return false
	}
	for _, r := range trimmed {
		if unicode.IsControl(r) && r != '\n' {
			return false
		}
	}
	return true
}

func normalizeText(text string) string {
	fields := strings.Fields(strings.TrimSpace(text))
	return strings.Join(fields, " ")
}
