package games

import (
	"time"
)

// enterLocked moves the room into phase p. Any timer belonging to the
// previous phase is stopped, and bumping the version makes a callback that
// already fired but is still waiting on the lock a no-op.
func (r *Room) enterLocked(p Phase) {
	r.stopTimersLocked()
	r.version++
	r.phase = p

	r.log.Debug().Str("phase", string(p)).Int("round", r.round).Msg("phase entered")
}

// scheduleLocked runs fn after d, provided the room is still open and has
// not left the phase it was in when the timer was scheduled.
func (r *Room) scheduleLocked(d time.Duration, fn func()) {
	v := r.version
	t := r.clock.AfterFunc(d, func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		if r.closed || r.version != v {
			return
		}
		fn()
	})
	r.timers = append(r.timers, t)
}

func (r *Room) stopTimersLocked() {
	for _, t := range r.timers {
		t.Stop()
	}
	r.timers = nil
}

func (r *Room) startRoundLocked(round int) {
	r.round = round

	switch r.variant {
	case JokeFactory:
		r.startJokeRoundLocked(round)
	case TruthTales:
		r.startTaleRoundLocked(round)
	}
}

// checkCompletionLocked fires the completion trigger of the current phase
// when every required player has responded.
func (r *Room) checkCompletionLocked() {
	switch r.phase {
	case PhaseWriting:
		if r.writingCompleteLocked() {
			r.closeWritingLocked()
		}
	case PhaseVoting:
		if r.jokes != nil && r.jokes.votingComplete(r.players) {
			r.finishVotingLocked()
		}
	case PhaseGuessing:
		if r.tales != nil && r.tales.guessingComplete(r.players) {
			r.finishGuessingLocked()
		}
	}
}

func (r *Room) writingCompleteLocked() bool {
	switch r.variant {
	case JokeFactory:
		return r.jokes != nil && r.jokes.submittedCount(r.players) == len(r.players)
	case TruthTales:
		return r.tales != nil && r.tales.storyCount(r.players) == len(r.players)
	}
	return false
}

// closeWritingLocked ends the writing phase, by completion or timeout.
func (r *Room) closeWritingLocked() {
	if r.phase != PhaseWriting {
		return
	}

	switch r.variant {
	case JokeFactory:
		r.openVotingLocked()
	case TruthTales:
		r.openGuessingLocked()
	}
}

// showResultsLocked enters the results phase and schedules the next round
// or the end of the game.
func (r *Room) showResultsLocked(results RoundResults) {
	r.enterLocked(PhaseResults)

	results.Type = "roundResults"
	results.Round = r.round
	results.Scores = r.standingsLocked()
	r.broadcastLocked(results)

	r.log.Info().Int("round", r.round).Msg("round finished")

	r.scheduleLocked(r.rules.ResultsTime, r.advanceLocked)
}

func (r *Room) advanceLocked() {
	if r.round >= TotalRounds {
		r.endGameLocked()
		return
	}
	r.startRoundLocked(r.round + 1)
}

// endGameLocked announces the winner and resets the room for a replay.
func (r *Room) endGameLocked() {
	r.enterLocked(PhaseEnded)

	final := r.standingsLocked()
	if len(final) > 0 {
		winner := final[0]
		r.broadcastLocked(HostSpeaks{Type: "hostSpeaks", Line: winnerLine(r.rng, winner.Name), Kind: "finale"})
		r.broadcastLocked(GameEnded{Type: "gameEnded", Winner: winner, FinalScores: final})

		r.log.Info().Str("winner", winner.Name).Int("score", winner.Score).Msg("game ended")
	}

	r.round = 0
	r.scores = make(map[string]int)
	r.names = make(map[string]string)
	r.achievements = make(map[string][]string)
	r.storyTopics = nil
	r.jokes = nil
	r.tales = nil

	r.enterLocked(PhaseWaiting)
}
