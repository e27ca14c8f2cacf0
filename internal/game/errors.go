package game

// Error is a coordinator failure with a stable code and a message meant for
// players. Errors compare equal by code, so errors.Is(err, ErrInvalidConfig)
// holds for every config failure regardless of its message.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

func newError(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

var (
	ErrInvalidPhase         = newError("invalid_phase", "今はその操作はできません")
	ErrNotFound             = newError("not_found", "見つかりません")
	ErrRoomNotFound         = newError("not_found", "部屋が見つかりません")
	ErrPlayerNotFound       = newError("not_found", "参加してから操作してください")
	ErrRoomFull             = newError("room_full", "満員です")
	ErrDuplicateSubmission  = newError("duplicate_submission", "キーワードは既に入力済みです。変更できません。")
	ErrInsufficientKeywords = newError("insufficient_keywords", "キーワードが足りません。異なるキーワードを入力し直してください。")
	ErrInvalidConfig        = newError("invalid_config", "部屋の設定が不正です")
	ErrAlreadyExists        = newError("already_exists", "同じIDの部屋が既に存在します")
	ErrNoSpeakCredits       = newError("no_speak_credits", "発言回数が残っていません")
	ErrInvalidInput         = newError("invalid_input", "入力が不正です")
	ErrInternal             = newError("internal", "内部エラーが発生しました")
)

func invalidConfig(message string) *Error {
	return newError(ErrInvalidConfig.Code, message)
}

func invalidInput(message string) *Error {
	return newError(ErrInvalidInput.Code, message)
}
