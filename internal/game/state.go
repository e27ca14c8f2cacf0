package game

import "time"

type Phase string

const (
	PhaseLobby             Phase = "Lobby"
	PhaseKeywordSubmission Phase = "KeywordSubmission"
	PhaseDiscussion        Phase = "Discussion"
	PhaseVoting            Phase = "Voting"
	PhaseResult            Phase = "Result"
)

// phaseTransitions is the only graph rooms move along. Reset is handled
// separately since it may leave any phase.
var phaseTransitions = map[Phase]Phase{
	PhaseLobby:             PhaseKeywordSubmission,
	PhaseKeywordSubmission: PhaseDiscussion,
	PhaseDiscussion:        PhaseVoting,
	PhaseVoting:            PhaseResult,
}

func canAdvance(from, to Phase) bool {
	next, ok := phaseTransitions[from]
	return ok && next == to
}

// roundState carries the data that only exists in one phase.
type roundState interface {
	phase() Phase
}

type lobbyState struct {
	ready map[PlayerID]struct{}
}

type submissionState struct {
	confirmed map[PlayerID]struct{}
	assigned  bool
}

type discussionState struct {
	startedAt time.Time
	remaining int
}

type votingState struct {
	startedAt time.Time
	remaining int
}

type resultState struct {
	wolves      []PlayerID
	executed    PlayerID
	citizensWon bool
	counts      map[PlayerID]int
}

func (*lobbyState) phase() Phase      { return PhaseLobby }
func (*submissionState) phase() Phase { return PhaseKeywordSubmission }
func (*discussionState) phase() Phase { return PhaseDiscussion }
func (*votingState) phase() Phase     { return PhaseVoting }
func (*resultState) phase() Phase     { return PhaseResult }

func newLobbyState() *lobbyState {
	return &lobbyState{ready: make(map[PlayerID]struct{})}
}

func newSubmissionState() *submissionState {
	return &submissionState{confirmed: make(map[PlayerID]struct{})}
}
