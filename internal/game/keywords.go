package game

import (
	"math/rand/v2"
	"sort"
	"strings"
	"unicode/utf8"
)

const maxKeywordLength = 30

type wordPair struct {
	Citizen string
	Wolf    string
}

// keywordPool collects one keyword per player during KeywordSubmission and
// draws the citizen/wolf pair once everyone has submitted.
type keywordPool struct {
	policy      SubmissionPolicy
	expected    int
	submissions map[PlayerID]string
	selected    *wordPair
}

func newKeywordPool(policy SubmissionPolicy) *keywordPool {
	return &keywordPool{
		policy:      policy,
		submissions: make(map[PlayerID]string),
	}
}

// reset starts a fresh round expecting one submission per active player.
func (p *keywordPool) reset(expected int) {
	p.expected = expected
	p.submissions = make(map[PlayerID]string)
	p.selected = nil
}

func (p *keywordPool) submit(pid PlayerID, word string) (string, error) {
	trimmed := strings.TrimSpace(word)
	if trimmed == "" {
		return "", invalidInput("キーワードを入力してください")
	}
	if utf8.RuneCountInString(trimmed) > maxKeywordLength {
		return "", invalidInput("キーワードが長すぎます")
	}
	if p.selected != nil {
		return "", ErrInvalidPhase
	}
	if _, exists := p.submissions[pid]; exists && p.policy == FirstWriteWins {
		return "", ErrDuplicateSubmission
	}
	p.submissions[pid] = trimmed
	return trimmed, nil
}

func (p *keywordPool) count() int {
	return len(p.submissions)
}

func (p *keywordPool) submitted(pid PlayerID) bool {
	_, ok := p.submissions[pid]
	return ok
}

// tryDraw returns the cached pair once drawn. Until the submission count
// reaches active it reports ok=false. The citizen word is drawn from every
// submission, duplicates included, and the wolf word from the submissions
// that differ from it. With fewer than two distinct keywords every submission
// is discarded and ErrInsufficientKeywords is returned.
func (p *keywordPool) tryDraw(active int, rng *rand.Rand) (pair wordPair, ok bool, err error) {
	if p.selected != nil {
		return *p.selected, true, nil
	}
	if active <= 0 || len(p.submissions) < active {
		return wordPair{}, false, nil
	}
	words := p.ordered()
	citizen := words[rng.IntN(len(words))]
	others := make([]string, 0, len(words))
	for _, word := range words {
		if word != citizen {
			others = append(others, word)
		}
	}
	if len(others) == 0 {
		p.submissions = make(map[PlayerID]string)
		return wordPair{}, false, ErrInsufficientKeywords
	}
	p.selected = &wordPair{Citizen: citizen, Wolf: others[rng.IntN(len(others))]}
	return *p.selected, true, nil
}

// ordered lists every submission by player id so a seeded generator yields a
// reproducible draw.
func (p *keywordPool) ordered() []string {
	ids := make([]PlayerID, 0, len(p.submissions))
	for id := range p.submissions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	words := make([]string, 0, len(ids))
	for _, id := range ids {
		words = append(words, p.submissions[id])
	}
	return words
}

func (p *keywordPool) wordFor(pid PlayerID, wolves map[PlayerID]struct{}) (string, bool) {
	if p.selected == nil {
		return "", false
	}
	if _, ok := wolves[pid]; ok {
		return p.selected.Wolf, true
	}
	return p.selected.Citizen, true
}
