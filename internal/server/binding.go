package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type bindMessages map[string]map[string]string

// bindBody accepts form-urlencoded or JSON bodies, chosen by Content-Type.
func bindBody(c *gin.Context, req any, messages bindMessages) bool {
	if err := c.ShouldBind(req); err != nil {
		writeError(c, http.StatusBadRequest, resolveBindError(err, messages))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, req any, messages bindMessages) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		writeError(c, http.StatusBadRequest, resolveBindError(err, messages))
		return false
	}
	return true
}

func resolveBindError(err error, messages bindMessages) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, verr := range verrs {
			if fieldMsgs, ok := messages[verr.Field()]; ok {
				if msg, ok := fieldMsgs[verr.Tag()]; ok {
					return msg
				}
			}
			if fieldMsgs, ok := commonMessages[verr.Field()]; ok {
				if msg, ok := fieldMsgs[verr.Tag()]; ok {
					return msg
				}
			}
		}
	}
	return "入力が不正です"
}

var commonMessages = bindMessages{
	"RoomID": {
		"required": "部屋IDを指定してください",
		"roomid":   "部屋IDは英数字・ハイフン・アンダースコアで64文字以内にしてください",
	},
	"PlayerID": {
		"required": "プレイヤーIDを指定してください",
		"playerid": "プレイヤーIDが不正です",
	},
	"PlayerName": {
		"required":   "名前を入力してください",
		"playername": "名前は20文字以内で、記号「|」は使えません",
	},
}
