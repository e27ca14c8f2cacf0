package server

type roomQuery struct {
	RoomID string `form:"room_id" binding:"required,roomid"`
}

type streamQuery struct {
	RoomID   string `form:"room_id" binding:"required,roomid"`
	PlayerID string `form:"id" binding:"omitempty,playerid"`
}

type themeQuery struct {
	RoomID   string `form:"room_id" binding:"required,roomid"`
	PlayerID string `form:"player_id" binding:"required,playerid"`
}

type createRoomRequest struct {
	RoomID          string `form:"room_id" json:"room_id" binding:"omitempty,roomid"`
	RoomName        string `form:"room_name" json:"room_name"`
	MaxPlayers      *int   `form:"max_players" json:"max_players"`
	WolfCount       *int   `form:"wolf_count" json:"wolf_count"`
	DiscussionTime  *int   `form:"discussion_time" json:"discussion_time"`
	VotingTime      *int   `form:"voting_time" json:"voting_time"`
	MaxSpeak        *int   `form:"max_speak" json:"max_speak"`
	Genre           string `form:"genre" json:"genre"`
	CustomGenre     string `form:"custom_genre" json:"custom_genre"`
	KeywordPolicy   string `form:"keyword_policy" json:"keyword_policy"`
	ConfirmKeywords bool   `form:"confirm_keywords" json:"confirm_keywords"`
}

type roomRequest struct {
	RoomID string `form:"room_id" json:"room_id" binding:"required,roomid"`
}

type joinRequest struct {
	RoomID     string `form:"room_id" json:"room_id" binding:"required,roomid"`
	PlayerID   string `form:"player_id" json:"player_id" binding:"omitempty,playerid"`
	PlayerName string `form:"player_name" json:"player_name" binding:"required,playername"`
}

type playerRequest struct {
	RoomID   string `form:"room_id" json:"room_id" binding:"required,roomid"`
	PlayerID string `form:"player_id" json:"player_id" binding:"required,playerid"`
}

type keywordRequest struct {
	RoomID   string `form:"room_id" json:"room_id" binding:"required,roomid"`
	PlayerID string `form:"player_id" json:"player_id" binding:"required,playerid"`
	Keyword  string `form:"keyword" json:"keyword" binding:"required,keyword"`
}

type voteRequest struct {
	RoomID   string `form:"room_id" json:"room_id" binding:"required,roomid"`
	VoterID  string `form:"voter_id" json:"voter_id" binding:"required,playerid"`
	TargetID string `form:"target_id" json:"target_id" binding:"required,playerid"`
}

type chatRequest struct {
	RoomID     string `form:"room_id" json:"room_id" binding:"required,roomid"`
	PlayerID   string `form:"player_id" json:"player_id" binding:"omitempty,playerid"`
	PlayerName string `form:"player_name" json:"player_name" binding:"required_without=PlayerID"`
	Message    string `form:"message" json:"message" binding:"required,chat"`
}

var (
	keywordMessages = bindMessages{
		"Keyword": {
			"required": "キーワードを入力してください",
			"keyword":  "キーワードは30文字以内にしてください",
		},
	}
	voteMessages = bindMessages{
		"VoterID":  {"required": "投票者を指定してください", "playerid": "投票者IDが不正です"},
		"TargetID": {"required": "投票先を指定してください", "playerid": "投票先IDが不正です"},
	}
	chatMessages = bindMessages{
		"PlayerName": {"required_without": "参加してから発言してください"},
		"Message":    {"required": "メッセージを入力してください", "chat": "メッセージは200文字以内にしてください"},
	}
)
