package game

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Wire shapes pushed through the hub besides the projection.

func chatMessage(name, text string) string {
	return "CHAT|" + name + "|" + text
}

func noticeMessage(text string) string {
	return "NOTICE|" + text
}

func topicMessage(keyword string) string {
	data, _ := json.Marshal(struct {
		Type  string `json:"type"`
		Topic string `json:"topic"`
	}{Type: "your_topic", Topic: keyword})
	return string(data)
}

func shortfallNotice(roomID RoomID, have, wolves int) string {
	needed := wolves + 1 - have
	return fmt.Sprintf("あと%d人必要です（現在%d人、ワードウルフ%d人）。部屋ID「%s」を他のプレイヤーに共有してください！", needed, have, wolves, roomID)
}

func submissionStartNotice(players int, genre string) string {
	return fmt.Sprintf("全員準備完了！ゲームを開始します。(参加: %d人) お題は「%s」です。関連ワードを入力してください。", players, genre)
}

func submissionProgressNotice(count, expected int) string {
	return fmt.Sprintf("誰かがキーワードを入力しました（現在 %d/%d 人）", count, expected)
}

const (
	insufficientNotice = "キーワードが重複しました。全員もう一度、別のキーワードを入力してください。"
	confirmNotice      = "キーワードが配られました。確認したら「確認」を押してください。"
	votingNotice       = "投票フェーズが始まりました！ワードウルフだと思う人に投票してください。"
	citizensWinNotice  = "ゲーム終了！市民の勝利です！ワードウルフを見つけました！"
	wolvesWinNotice    = "ゲーム終了！ワードウルフの勝利です！市民を騙すことに成功しました！"
	resetNotice        = "部屋がリセットされました。"
)

func discussionNotice(seconds int) string {
	return fmt.Sprintf("ディスカッションを開始します。制限時間: %d分%d秒", seconds/60, seconds%60)
}

func executedNotice(name string, votes int) string {
	return fmt.Sprintf("%sさんが%d票で脱落しました", name, votes)
}

func wolvesRevealNotice(names []string) string {
	return "ワードウルフは " + strings.Join(names, "、") + " でした。"
}
