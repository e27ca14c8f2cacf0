package web

import (
	"strconv"

	"github.com/a-h/templ"
)

func itoa(value int) string {
	return strconv.Itoa(value)
}

func esc(value string) string {
	return templ.EscapeString(value)
}

var phaseLabels = map[string]string{
	"Lobby":             "待機中",
	"KeywordSubmission": "キーワード入力中",
	"Discussion":        "議論中",
	"Voting":            "投票中",
	"Result":            "結果発表",
}

func phaseLabel(phase string) string {
	if label, ok := phaseLabels[phase]; ok {
		return label
	}
	return phase
}
