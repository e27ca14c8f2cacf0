package game

import "sort"

// tallyVotes counts the votes of alive players whose target is still in the
// room. The strict maximum is executed; a tie goes to the lexicographically
// lowest id. No votes means nobody is executed.
func tallyVotes(players map[PlayerID]*Player) (PlayerID, map[PlayerID]int) {
	counts := make(map[PlayerID]int)
	for _, p := range players {
		if !p.Alive || p.VoteTarget == "" {
			continue
		}
		if _, ok := players[p.VoteTarget]; !ok {
			continue
		}
		counts[p.VoteTarget]++
	}
	if len(counts) == 0 {
		return "", counts
	}
	candidates := make([]PlayerID, 0, len(counts))
	for id := range counts {
		candidates = append(candidates, id)
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i] < candidates[j] })
	executed := candidates[0]
	for _, id := range candidates[1:] {
		if counts[id] > counts[executed] {
			executed = id
		}
	}
	return executed, counts
}
