package game

import (
	"time"

	"github.com/rs/zerolog/log"
)

// timerGrace is how far past its wall-clock deadline a countdown may drift
// before the registry sweep forces the transition.
const timerGrace = 2 * time.Second

// armTimer starts the 1 Hz countdown for the phase just entered. The loop
// retires itself once the generation or phase moves on.
func (r *Room) armTimer(phase Phase) {
	gen := r.generation
	go r.runTimer(gen, phase)
}

func (r *Room) runTimer(gen uint64, phase Phase) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
		}
		alive := false
		_ = r.with(func(r *Room) error {
			alive = r.tick(gen, phase)
			return nil
		})
		if !alive {
			return
		}
	}
}

// tick decrements the countdown for phase and transitions at zero. It
// returns false when the timer should stop.
func (r *Room) tick(gen uint64, phase Phase) bool {
	if r.generation != gen || r.state.phase() != phase {
		return false
	}
	switch st := r.state.(type) {
	case *discussionState:
		st.remaining--
		if st.remaining <= 0 {
			st.remaining = 0
			r.enterVoting(time.Now(), "timeout")
			return false
		}
	case *votingState:
		st.remaining--
		if st.remaining <= 0 {
			st.remaining = 0
			r.finish("timeout")
			return false
		}
	default:
		return false
	}
	r.broadcastState()
	return true
}

// CheckTimers forces a stalled countdown through its transition when now is
// past the phase deadline plus timerGrace. It reports whether it acted.
func (r *Room) CheckTimers(now time.Time) bool {
	switch st := r.state.(type) {
	case *discussionState:
		deadline := st.startedAt.Add(time.Duration(r.cfg.DiscussionSeconds)*time.Second + timerGrace)
		if now.Before(deadline) {
			return false
		}
		log.Warn().Str("room_id", string(r.id)).Int("remaining", st.remaining).Msg("discussion timer stalled; forcing vote")
		st.remaining = 0
		r.enterVoting(now, "watchdog")
		return true
	case *votingState:
		deadline := st.startedAt.Add(time.Duration(r.cfg.VotingSeconds)*time.Second + timerGrace)
		if now.Before(deadline) {
			return false
		}
		log.Warn().Str("room_id", string(r.id)).Int("remaining", st.remaining).Msg("voting timer stalled; forcing result")
		st.remaining = 0
		r.finish("watchdog")
		return true
	default:
		return false
	}
}

// idle reports whether nobody is in or watching the room and it has seen no
// activity for at least after.
func (r *Room) idle(now time.Time, after time.Duration) bool {
	if after <= 0 || len(r.players) > 0 || r.hub.Len() > 0 {
		return false
	}
	return now.Sub(r.lastActive) >= after
}
