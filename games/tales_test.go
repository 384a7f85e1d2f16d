package games

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startedTales(t *testing.T, n int, opts ...Option) *table {
	t.Helper()

	tb := newTable(t, TruthTales, n, opts...)
	require.NoError(t, tb.reg.Start(tb.code, "p1"))
	return tb
}

func TestTaleRoundSharesTopic(t *testing.T) {
	tb := startedTales(t, 4)

	first, ok := lastOf[RoundStarted](tb.out["p1"])
	require.True(t, ok)
	assert.Equal(t, KindStoryTopics, first.RoundType)
	assert.Equal(t, "Round 1 of 3", first.RoundName)
	assert.Equal(t, 90, first.TimeLimit)

	for _, id := range tb.ids[1:] {
		rs, ok := lastOf[RoundStarted](tb.out[id])
		require.True(t, ok)
		assert.Equal(t, first.Content, rs.Content)
	}

	// No joke host banter in this game.
	assert.Equal(t, 0, countOf[HostSpeaks](tb.out["p1"]))
	assert.Equal(t, []time.Duration{90 * time.Second}, tb.clock.pending())
}

func TestTaleTopicsDifferPerRound(t *testing.T) {
	tb := startedTales(t, 3)

	topics := map[string]bool{}
	for round := 1; round <= TotalRounds; round++ {
		rs, ok := lastOf[RoundStarted](tb.out["p1"])
		require.True(t, ok)
		require.Equal(t, round, rs.Round)
		topics[rs.Content] = true

		tb.clock.fire(t, 90*time.Second)
		require.Equal(t, PhaseResults, tb.room(t).Phase())
		tb.clock.fire(t, 10*time.Second)
	}

	assert.Len(t, topics, TotalRounds)
	assert.Equal(t, PhaseWaiting, tb.room(t).Phase())
}

func TestStoryValidation(t *testing.T) {
	tb := startedTales(t, 3)

	assert.ErrorIs(t, tb.reg.SubmitStory(tb.code, "p1", "too short"), ErrInvalidInput)
	assert.ErrorIs(t, tb.reg.SubmitStory(tb.code, "p1", strings.Repeat("x", maxStoryLength+1)), ErrInvalidInput)
	assert.ErrorIs(t, tb.reg.SubmitAnswer(tb.code, "p1", "a joke"), ErrInvalidPhase)

	require.NoError(t, tb.reg.SubmitStory(tb.code, "p1", "I once met a famous chef"))
	assert.ErrorIs(t, tb.reg.SubmitStory(tb.code, "p1", "Actually it was a famous baker"), ErrAlreadySubmitted)

	prog, ok := lastOf[Progress](tb.out["p3"])
	require.True(t, ok)
	assert.Equal(t, "submissionProgress", prog.Type)
	assert.Equal(t, 1, prog.Submitted)
	assert.Equal(t, 3, prog.Total)

	ack, ok := lastOf[SubmissionReceived](tb.out["p1"])
	require.True(t, ok)
	assert.Equal(t, "storyReceived", ack.Type)
}

func TestStoryMinLengthRule(t *testing.T) {
	rules := DefaultRules()
	rules.StoryMinLength = 5
	tb := startedTales(t, 3, WithRules(rules))

	assert.NoError(t, tb.reg.SubmitStory(tb.code, "p1", "short"))
}

func TestGuessingListsArePersonal(t *testing.T) {
	tb := startedTales(t, 4)
	tb.tellAll(t)

	require.Equal(t, PhaseGuessing, tb.room(t).Phase())
	assert.Equal(t, []time.Duration{60 * time.Second}, tb.clock.pending())

	for _, id := range tb.ids {
		gs, ok := lastOf[GuessingStarted](tb.out[id])
		require.True(t, ok)
		require.Len(t, gs.Stories, 3)
		assert.Len(t, gs.Players, 4)
		assert.Equal(t, 60, gs.TimeLimit)

		own := tb.storyBy(t, id)
		for _, s := range gs.Stories {
			assert.NotEqual(t, own, s.ID, "%s was shown their own story", id)
			assert.NotContains(t, s.Text, id)
		}
	}
}

func TestGuessRejections(t *testing.T) {
	tb := startedTales(t, 3)

	assert.ErrorIs(t, tb.reg.SubmitGuess(tb.code, "p1", 0, "p2"), ErrInvalidPhase)

	tb.tellAll(t)
	s1, s2 := tb.storyBy(t, "p1"), tb.storyBy(t, "p2")

	assert.ErrorIs(t, tb.reg.SubmitGuess(tb.code, "p1", 99, "p2"), ErrInvalidInput)
	assert.ErrorIs(t, tb.reg.SubmitGuess(tb.code, "p1", s1, "p2"), ErrCannotGuessSelf)
	assert.ErrorIs(t, tb.reg.SubmitGuess(tb.code, "p1", s2, "p1"), ErrInvalidGuessTarget)
	assert.ErrorIs(t, tb.reg.SubmitGuess(tb.code, "p1", s2, "stranger"), ErrInvalidGuessTarget)

	require.NoError(t, tb.reg.SubmitGuess(tb.code, "p1", s2, "p3"))
	assert.ErrorIs(t, tb.reg.SubmitGuess(tb.code, "p1", s2, "p2"), ErrAlreadySubmitted)

	ack, ok := lastOf[VoteReceived](tb.out["p1"])
	require.True(t, ok)
	assert.Equal(t, "guessReceived", ack.Type)

	prog, ok := lastOf[Progress](tb.out["p2"])
	require.True(t, ok)
	assert.Equal(t, "guessProgress", prog.Type)
	assert.Equal(t, 1, prog.Submitted)
	assert.Equal(t, 6, prog.Total)
}

func TestTaleScoring(t *testing.T) {
	tb := startedTales(t, 3)
	tb.tellAll(t)

	s1, s2, s3 := tb.storyBy(t, "p1"), tb.storyBy(t, "p2"), tb.storyBy(t, "p3")

	guesses := []struct {
		guesser string
		story   int
		author  string
	}{
		{"p2", s1, "p3"},
		{"p3", s1, "p2"},
		{"p1", s2, "p2"},
		{"p3", s2, "p2"},
		{"p1", s3, "p2"},
		{"p2", s3, "p3"},
	}
	for _, g := range guesses {
		require.NoError(t, tb.reg.SubmitGuess(tb.code, g.guesser, g.story, g.author))
	}

	require.Equal(t, PhaseResults, tb.room(t).Phase())

	// p1 fooled both guessers: 2 wrong guesses plus the bonus, and 2 for
	// spotting p2. p2 earns 2 for spotting p3. p3 earns 2 for spotting p2
	// and 1 for the wrong guess on their story.
	assert.Equal(t, map[string]int{"p1": 7, "p2": 2, "p3": 3}, tb.room(t).Scores())

	res, ok := lastOf[RoundResults](tb.out["p1"])
	require.True(t, ok)
	require.Len(t, res.Stories, 3)

	byAuthor := map[string]StoryResult{}
	for _, s := range res.Stories {
		byAuthor[s.AuthorID] = s
	}

	assert.True(t, byAuthor["p1"].FooledEveryone)
	assert.Equal(t, 0, byAuthor["p1"].CorrectGuesses)
	assert.Equal(t, 2, byAuthor["p1"].TotalGuesses)
	assert.Equal(t, []GuessDetail{
		{Guesser: "Player2", GuessedAuthor: "Player3", Correct: false},
		{Guesser: "Player3", GuessedAuthor: "Player2", Correct: false},
	}, byAuthor["p1"].Guesses)

	assert.False(t, byAuthor["p2"].FooledEveryone)
	assert.Equal(t, 2, byAuthor["p2"].CorrectGuesses)
	assert.Equal(t, 1, byAuthor["p3"].CorrectGuesses)

	require.Len(t, res.Scores, 3)
	assert.Equal(t, "p1", res.Scores[0].ID)
	assert.Contains(t, res.Scores[0].Achievements, achievementMasterDeceiver)
	assert.Contains(t, res.Scores[0].Achievements, achievementDetective)
}

func TestDisconnectDuringGuessing(t *testing.T) {
	tb := startedTales(t, 4)
	tb.tellAll(t)

	s4 := tb.storyBy(t, "p4")
	require.NoError(t, tb.reg.Leave(tb.code, "p4"))

	// Three guessers remain, each owing a guess on the three stories they
	// did not write, including the departed player's.
	require.NoError(t, tb.reg.SubmitGuess(tb.code, "p1", s4, "p4"))

	prog, ok := lastOf[Progress](tb.out["p1"])
	require.True(t, ok)
	assert.Equal(t, 1, prog.Submitted)
	assert.Equal(t, 9, prog.Total)

	for _, g := range []struct {
		guesser string
		author  string
	}{
		{"p1", "p2"},
		{"p1", "p3"},
		{"p2", "p1"},
		{"p2", "p3"},
		{"p2", "p4"},
		{"p3", "p1"},
		{"p3", "p2"},
		{"p3", "p4"},
	} {
		require.Equal(t, PhaseGuessing, tb.room(t).Phase())
		require.NoError(t, tb.reg.SubmitGuess(tb.code, g.guesser, tb.storyBy(t, g.author), g.author))
	}

	assert.Equal(t, PhaseResults, tb.room(t).Phase())

	res, ok := lastOf[RoundResults](tb.out["p2"])
	require.True(t, ok)
	require.Len(t, res.Stories, 4)
	assert.Len(t, res.Scores, 3)

	for _, s := range res.Stories {
		if s.AuthorID == "p4" {
			assert.Equal(t, "Player4", s.Author)
			assert.Equal(t, 3, s.CorrectGuesses)
		}
	}
}

func TestGuessingTimeout(t *testing.T) {
	tb := startedTales(t, 3)
	tb.tellAll(t)

	require.NoError(t, tb.reg.SubmitGuess(tb.code, "p1", tb.storyBy(t, "p2"), "p2"))
	tb.clock.fire(t, 60*time.Second)

	require.Equal(t, PhaseResults, tb.room(t).Phase())
	assert.Equal(t, map[string]int{"p1": 2, "p2": 0, "p3": 0}, tb.room(t).Scores())

	err := tb.reg.SubmitGuess(tb.code, "p2", tb.storyBy(t, "p1"), "p1")
	assert.ErrorIs(t, err, ErrInvalidPhase)
}
