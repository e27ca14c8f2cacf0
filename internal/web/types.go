package web

// RoomSummary is one entry of the lobby list on the landing page.
type RoomSummary struct {
	ID         string
	Name       string
	Phase      string
	Players    int
	MaxPlayers int
	WolfCount  int
	Genre      string
}
