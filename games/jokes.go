package games

import (
	"cmp"
	"slices"
	"strings"
	"unicode/utf8"
)

const (
	maxAnswerLength = 280
	unanimousBonus  = 2

	achievementCrowdPleaser = "CROWD_PLEASER"
	achievementCricketsClub = "CRICKETS_CLUB"
)

var jokeRounds = map[int]struct {
	kind Kind
	name string
}{
	1: {KindPunchlines, "Setup Battle"},
	2: {KindSetups, "Punchline Challenge"},
	3: {KindTopics, "Full Joke Creation"},
}

type jokeOption struct {
	authorID string
	text     string
}

// jokeRound is the JokeFactory state of the current round.
type jokeRound struct {
	prompts     map[string]string // player id -> assigned prompt
	submissions map[string]string // player id -> answer
	options     []jokeOption      // frozen submissions; index is the anonymized id
	votes       map[string]int    // voter id -> option index
}

func (j *jokeRound) submittedCount(players []*Player) int {
	n := 0
	for _, p := range players {
		if _, ok := j.submissions[p.ID]; ok {
			n++
		}
	}
	return n
}

func (j *jokeRound) ownIndex(id string) int {
	return slices.IndexFunc(j.options, func(o jokeOption) bool { return o.authorID == id })
}

// canVote reports whether there is any option the player did not write.
func (j *jokeRound) canVote(id string) bool {
	return slices.ContainsFunc(j.options, func(o jokeOption) bool { return o.authorID != id })
}

func (j *jokeRound) voteProgress(players []*Player) (voted, required int) {
	for _, p := range players {
		if !j.canVote(p.ID) {
			continue
		}
		required++
		if _, ok := j.votes[p.ID]; ok {
			voted++
		}
	}
	return voted, required
}

func (j *jokeRound) votingComplete(players []*Player) bool {
	voted, required := j.voteProgress(players)
	return voted == required
}

func (r *Room) startJokeRoundLocked(round int) {
	def := jokeRounds[round]

	prompts, err := r.content.Pick(r.rng, def.kind, len(r.players))
	if err != nil {
		r.log.Error().Err(err).Int("round", round).Msg("unable to assign prompts")
		r.broadcastLocked(NewErrorNotice(err))
		r.endGameLocked()
		return
	}

	r.jokes = &jokeRound{
		prompts:     make(map[string]string, len(r.players)),
		submissions: make(map[string]string, len(r.players)),
		votes:       make(map[string]int, len(r.players)),
	}
	r.enterLocked(PhaseWriting)

	r.broadcastLocked(HostSpeaks{Type: "hostSpeaks", Line: pickLine(r.rng, roundIntroLines[round]), Kind: "roundIntro"})

	limit := int(r.rules.WritingTime.Seconds())
	for i, p := range r.players {
		r.jokes.prompts[p.ID] = prompts[i]
		p.send(RoundStarted{
			Type:      "roundStarted",
			Round:     round,
			RoundName: def.name,
			RoundType: def.kind,
			Content:   prompts[i],
			TimeLimit: limit,
		})
	}

	r.scheduleLocked(r.rules.WritingTime/2, func() {
		r.broadcastLocked(HostSpeaks{Type: "hostSpeaks", Line: pickLine(r.rng, betweenSubmissionLines), Kind: "encouragement"})
	})
	r.scheduleLocked(r.rules.WritingTime, r.closeWritingLocked)
}

// submitAnswer records or replaces the player's answer for this round.
func (r *Room) submitAnswer(playerID, answer string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.commandLocked(playerID); err != nil {
		return err
	}
	if r.variant != JokeFactory || r.phase != PhaseWriting || r.jokes == nil {
		return ErrInvalidPhase
	}

	answer = strings.TrimSpace(answer)
	switch n := utf8.RuneCountInString(answer); {
	case n == 0:
		return invalidInput("Answer cannot be empty")
	case n > maxAnswerLength:
		return invalidInput("Answer is too long")
	}

	r.jokes.submissions[playerID] = answer

	r.playerLocked(playerID).send(SubmissionReceived{Type: "submissionReceived"})
	r.broadcastLocked(Progress{
		Type:      "submissionProgress",
		Submitted: r.jokes.submittedCount(r.players),
		Total:     len(r.players),
	})

	r.checkCompletionLocked()

	return nil
}

// openVotingLocked freezes submissions behind shuffled anonymized indices.
func (r *Room) openVotingLocked() {
	j := r.jokes

	authors := make([]string, 0, len(j.submissions))
	for id := range j.submissions {
		authors = append(authors, id)
	}
	slices.Sort(authors)
	r.rng.Shuffle(len(authors), func(a, b int) {
		authors[a], authors[b] = authors[b], authors[a]
	})

	j.options = make([]jokeOption, 0, len(authors))
	for _, id := range authors {
		j.options = append(j.options, jokeOption{authorID: id, text: j.submissions[id]})
	}

	if len(j.options) == 0 {
		r.finishVotingLocked()
		return
	}

	r.enterLocked(PhaseVoting)

	options := make([]VotingOption, 0, len(j.options))
	for i, o := range j.options {
		options = append(options, VotingOption{Index: i, Text: o.text})
	}

	r.broadcastLocked(HostSpeaks{Type: "hostSpeaks", Line: pickLine(r.rng, votingStartLines), Kind: "voting"})
	r.broadcastLocked(VotingStarted{
		Type:      "votingStarted",
		Options:   options,
		TimeLimit: int(r.rules.VotingTime.Seconds()),
	})

	r.scheduleLocked(r.rules.VotingTime, r.finishVotingLocked)

	// Nobody may be able to vote, e.g. a single submission whose author is
	// the only player left.
	r.checkCompletionLocked()
}

// submitVote casts the player's single vote for an anonymized option.
func (r *Room) submitVote(playerID string, index int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.commandLocked(playerID); err != nil {
		return err
	}
	if r.variant != JokeFactory || r.phase != PhaseVoting || r.jokes == nil {
		return ErrInvalidPhase
	}

	j := r.jokes
	if index < 0 || index >= len(j.options) {
		return ErrInvalidVoteTarget
	}
	if j.ownIndex(playerID) == index {
		return ErrCannotVoteSelf
	}
	if _, ok := j.votes[playerID]; ok {
		return ErrAlreadySubmitted
	}

	j.votes[playerID] = index

	voted, required := j.voteProgress(r.players)
	r.playerLocked(playerID).send(VoteReceived{Type: "voteReceived"})
	r.broadcastLocked(Progress{Type: "voteProgress", Submitted: voted, Total: required})

	r.checkCompletionLocked()

	return nil
}

// finishVotingLocked tallies votes and awards points, by completion or
// timeout.
func (r *Room) finishVotingLocked() {
	if r.phase != PhaseVoting && r.phase != PhaseWriting {
		return
	}

	j := r.jokes
	votedBy := make([][]string, len(j.options))
	for voter, idx := range j.votes {
		votedBy[idx] = append(votedBy[idx], voter)
	}

	results := make([]JokeResult, 0, len(j.options))
	for i, o := range j.options {
		votes := len(votedBy[i])
		r.scores[o.authorID] += votes

		// Every other player still in the room voted for this one.
		others := 0
		unanimous := true
		for _, p := range r.players {
			if p.ID == o.authorID {
				continue
			}
			others++
			if !slices.Contains(votedBy[i], p.ID) {
				unanimous = false
			}
		}
		unanimous = unanimous && others > 0

		if unanimous {
			r.scores[o.authorID] += unanimousBonus
			r.awardLocked(o.authorID, achievementCrowdPleaser)
		}
		if votes == 0 {
			r.awardLocked(o.authorID, achievementCricketsClub)
		}

		results = append(results, JokeResult{
			PlayerID:   o.authorID,
			PlayerName: r.nameLocked(o.authorID),
			Submission: o.text,
			Votes:      votes,
			Unanimous:  unanimous,
			NoVotes:    votes == 0,
			Reaction:   audienceReaction(votes, others),
		})
	}

	slices.SortStableFunc(results, func(a, b JokeResult) int {
		if c := cmp.Compare(b.Votes, a.Votes); c != 0 {
			return c
		}
		return cmp.Compare(a.PlayerName, b.PlayerName)
	})

	r.showResultsLocked(RoundResults{Jokes: results})
}
