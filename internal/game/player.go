package game

type PlayerID string

type RoomID string

type Role string

const (
	RoleNone    Role = ""
	RoleCitizen Role = "citizen"
	RoleWolf    Role = "wolf"
)

// Label is the Japanese role name shown to players.
func (r Role) Label() string {
	switch r {
	case RoleCitizen:
		return "市民"
	case RoleWolf:
		return "ワードウルフ"
	default:
		return ""
	}
}

type Player struct {
	ID             PlayerID
	Name           string
	Role           Role
	Keyword        string
	Alive          bool
	RemainingSpeak int
	VoteTarget     PlayerID
}

func newPlayer(id PlayerID, name string) *Player {
	return &Player{ID: id, Name: name, Alive: true}
}

// assign sets role and keyword together so neither is ever set alone.
func (p *Player) assign(role Role, keyword string) {
	p.Role = role
	p.Keyword = keyword
}

func (p *Player) assigned() bool {
	return p.Role != RoleNone
}

func (p *Player) IsWolf() bool {
	return p.Role == RoleWolf
}

func (p *Player) HasVoted() bool {
	return p.VoteTarget != ""
}

// clearRound drops everything a previous game left on the player.
func (p *Player) clearRound() {
	p.Role = RoleNone
	p.Keyword = ""
	p.Alive = true
	p.RemainingSpeak = 0
	p.VoteTarget = ""
}
