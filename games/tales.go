package games

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"
)

const (
	maxStoryLength     = 1000
	correctGuessPoints = 2
	fooledAllBonus     = 3

	achievementMasterDeceiver = "MASTER_DECEIVER"
	achievementDetective      = "DETECTIVE"
)

// Story is a TruthTales submission.
type Story struct {
	ID       int
	Text     string
	AuthorID string
	Guesses  map[string]string // guesser id -> guessed author id
}

// taleRound is the TruthTales state of the current round.
type taleRound struct {
	topic   string
	stories []*Story

	// roster is the set of valid guess targets, captured when guessing
	// opens so a departed author can still be named.
	roster []PlayerInfo
}

func (t *taleRound) storyBy(authorID string) *Story {
	for _, s := range t.stories {
		if s.AuthorID == authorID {
			return s
		}
	}
	return nil
}

func (t *taleRound) story(id int) *Story {
	for _, s := range t.stories {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func (t *taleRound) storyCount(players []*Player) int {
	n := 0
	for _, p := range players {
		if t.storyBy(p.ID) != nil {
			n++
		}
	}
	return n
}

func (t *taleRound) inRoster(id string) bool {
	return slices.ContainsFunc(t.roster, func(p PlayerInfo) bool { return p.ID == id })
}

// guessProgress counts, over every current player and every story they did
// not write, how many guesses have been made.
func (t *taleRound) guessProgress(players []*Player) (made, required int) {
	for _, p := range players {
		for _, s := range t.stories {
			if s.AuthorID == p.ID {
				continue
			}
			required++
			if _, ok := s.Guesses[p.ID]; ok {
				made++
			}
		}
	}
	return made, required
}

func (t *taleRound) guessingComplete(players []*Player) bool {
	made, required := t.guessProgress(players)
	return made == required
}

func (r *Room) startTaleRoundLocked(round int) {
	topic := r.storyTopics[round-1]

	r.tales = &taleRound{topic: topic}
	r.enterLocked(PhaseWriting)

	r.broadcastLocked(RoundStarted{
		Type:      "roundStarted",
		Round:     round,
		RoundName: fmt.Sprintf("Round %d of %d", round, TotalRounds),
		RoundType: KindStoryTopics,
		Content:   topic,
		TimeLimit: int(r.rules.WritingTime.Seconds()),
	})

	r.scheduleLocked(r.rules.WritingTime, r.closeWritingLocked)
}

// submitStory records the player's one story for this round.
func (r *Room) submitStory(playerID, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.commandLocked(playerID); err != nil {
		return err
	}
	if r.variant != TruthTales || r.phase != PhaseWriting || r.tales == nil {
		return ErrInvalidPhase
	}

	text = strings.TrimSpace(text)
	switch n := utf8.RuneCountInString(text); {
	case n < r.rules.StoryMinLength:
		return invalidInput(fmt.Sprintf("Story must be at least %d characters", r.rules.StoryMinLength))
	case n > maxStoryLength:
		return invalidInput("Story is too long")
	}

	t := r.tales
	if t.storyBy(playerID) != nil {
		return ErrAlreadySubmitted
	}

	t.stories = append(t.stories, &Story{
		ID:       len(t.stories),
		Text:     text,
		AuthorID: playerID,
		Guesses:  make(map[string]string),
	})

	r.playerLocked(playerID).send(SubmissionReceived{Type: "storyReceived"})
	r.broadcastLocked(Progress{
		Type:      "submissionProgress",
		Submitted: t.storyCount(r.players),
		Total:     len(r.players),
	})

	r.checkCompletionLocked()

	return nil
}

// openGuessingLocked sends each player every story but their own, in a
// private shuffled order.
func (r *Room) openGuessingLocked() {
	t := r.tales

	if len(t.stories) == 0 {
		r.finishGuessingLocked()
		return
	}

	r.enterLocked(PhaseGuessing)

	t.roster = r.playerInfosLocked()
	limit := int(r.rules.GuessingTime.Seconds())

	for _, p := range r.players {
		stories := make([]StoryOption, 0, len(t.stories))
		for _, s := range t.stories {
			if s.AuthorID == p.ID {
				continue
			}
			stories = append(stories, StoryOption{ID: s.ID, Text: s.Text})
		}
		r.rng.Shuffle(len(stories), func(a, b int) {
			stories[a], stories[b] = stories[b], stories[a]
		})

		p.send(GuessingStarted{
			Type:      "guessingStarted",
			Topic:     t.topic,
			Stories:   stories,
			Players:   slices.Clone(t.roster),
			TimeLimit: limit,
		})
	}

	r.scheduleLocked(r.rules.GuessingTime, r.finishGuessingLocked)

	r.checkCompletionLocked()
}

// submitGuess records who the player believes wrote a story.
func (r *Room) submitGuess(playerID string, storyID int, authorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.commandLocked(playerID); err != nil {
		return err
	}
	if r.variant != TruthTales || r.phase != PhaseGuessing || r.tales == nil {
		return ErrInvalidPhase
	}

	t := r.tales
	s := t.story(storyID)
	if s == nil {
		return invalidInput("That story does not exist")
	}
	if s.AuthorID == playerID {
		return ErrCannotGuessSelf
	}
	if authorID == playerID || !t.inRoster(authorID) {
		return ErrInvalidGuessTarget
	}
	if _, ok := s.Guesses[playerID]; ok {
		return ErrAlreadySubmitted
	}

	s.Guesses[playerID] = authorID

	made, required := t.guessProgress(r.players)
	r.playerLocked(playerID).send(VoteReceived{Type: "guessReceived"})
	r.broadcastLocked(Progress{Type: "guessProgress", Submitted: made, Total: required})

	r.checkCompletionLocked()

	return nil
}

// finishGuessingLocked scores every story, by completion or timeout.
func (r *Room) finishGuessingLocked() {
	if r.phase != PhaseGuessing && r.phase != PhaseWriting {
		return
	}

	t := r.tales
	results := make([]StoryResult, 0, len(t.stories))

	for _, s := range t.stories {
		res := StoryResult{
			StoryID:      s.ID,
			Story:        s.Text,
			AuthorID:     s.AuthorID,
			Author:       r.nameLocked(s.AuthorID),
			TotalGuesses: len(s.Guesses),
			Guesses:      make([]GuessDetail, 0, len(s.Guesses)),
		}

		for guesser, guessed := range s.Guesses {
			correct := guessed == s.AuthorID
			if correct {
				res.CorrectGuesses++
				r.scores[guesser] += correctGuessPoints
				r.awardLocked(guesser, achievementDetective)
			}
			res.Guesses = append(res.Guesses, GuessDetail{
				Guesser:       r.nameLocked(guesser),
				GuessedAuthor: r.nameLocked(guessed),
				Correct:       correct,
			})
		}
		slices.SortFunc(res.Guesses, func(a, b GuessDetail) int {
			return cmp.Compare(a.Guesser, b.Guesser)
		})

		r.scores[s.AuthorID] += res.TotalGuesses - res.CorrectGuesses
		if res.TotalGuesses > 0 && res.CorrectGuesses == 0 {
			res.FooledEveryone = true
			r.scores[s.AuthorID] += fooledAllBonus
			r.awardLocked(s.AuthorID, achievementMasterDeceiver)
		}

		results = append(results, res)
	}

	r.showResultsLocked(RoundResults{Stories: results})
}
