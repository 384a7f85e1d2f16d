package games

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type guessPlan struct {
	guesser, author, target string
}

// playJokes runs a whole JokeFactory game with votes drawn from seed. When
// reverse is set, every batch of submissions and votes arrives in the
// opposite order.
func playJokes(t *testing.T, n int, seed uint64, reverse bool) []Standing {
	t.Helper()

	tb := newTable(t, JokeFactory, n)
	require.NoError(t, tb.reg.Start(tb.code, "p1"))
	rng := rand.New(rand.NewPCG(seed, 99))

	order := slices.Clone(tb.ids)
	if reverse {
		slices.Reverse(order)
	}

	for round := 1; round <= TotalRounds; round++ {
		for _, id := range order {
			require.NoError(t, tb.reg.SubmitAnswer(tb.code, id, fmt.Sprintf("round %d by %s", round, id)))
		}
		require.Equal(t, PhaseVoting, tb.room(t).Phase())

		choices := map[string]string{}
		for i, id := range tb.ids {
			if rng.IntN(5) == 0 {
				continue
			}
			pick := rng.IntN(n - 1)
			if pick >= i {
				pick++
			}
			choices[id] = tb.ids[pick]
		}

		for _, id := range order {
			assert.ErrorIs(t, tb.reg.SubmitVote(tb.code, id, tb.optionBy(t, id)), ErrCannotVoteSelf)

			if target, ok := choices[id]; ok {
				require.NoError(t, tb.reg.SubmitVote(tb.code, id, tb.optionBy(t, target)))
			}
		}
		if len(choices) < n {
			tb.clock.fire(t, 30*time.Second)
		}

		require.Equal(t, PhaseResults, tb.room(t).Phase())
		for id, score := range tb.room(t).Scores() {
			assert.GreaterOrEqual(t, score, 0, id)
		}

		tb.clock.fire(t, 10*time.Second)
	}

	ended, ok := lastOf[GameEnded](tb.out["p1"])
	require.True(t, ok)
	return ended.FinalScores
}

// playTales is playJokes for TruthTales.
func playTales(t *testing.T, n int, seed uint64, reverse bool) []Standing {
	t.Helper()

	tb := newTable(t, TruthTales, n)
	require.NoError(t, tb.reg.Start(tb.code, "p1"))
	rng := rand.New(rand.NewPCG(seed, 99))

	order := slices.Clone(tb.ids)
	if reverse {
		slices.Reverse(order)
	}

	for round := 1; round <= TotalRounds; round++ {
		for _, id := range order {
			require.NoError(t, tb.reg.SubmitStory(tb.code, id, fmt.Sprintf("in round %d something odd happened to %s", round, id)))
		}
		require.Equal(t, PhaseGuessing, tb.room(t).Phase())

		var plan []guessPlan
		skipped := false
		for i, guesser := range tb.ids {
			for _, author := range tb.ids {
				if author == guesser {
					continue
				}
				if rng.IntN(6) == 0 {
					skipped = true
					continue
				}
				pick := rng.IntN(n - 1)
				if pick >= i {
					pick++
				}
				plan = append(plan, guessPlan{guesser: guesser, author: author, target: tb.ids[pick]})
			}
		}
		if reverse {
			slices.Reverse(plan)
		}

		for _, g := range plan {
			require.NoError(t, tb.reg.SubmitGuess(tb.code, g.guesser, tb.storyBy(t, g.author), g.target))
		}
		for _, id := range tb.ids {
			if phase := tb.room(t).Phase(); phase != PhaseGuessing {
				break
			}
			assert.ErrorIs(t, tb.reg.SubmitGuess(tb.code, id, tb.storyBy(t, id), tb.ids[0]), ErrCannotGuessSelf)
		}
		if skipped {
			tb.clock.fire(t, 60*time.Second)
		}

		require.Equal(t, PhaseResults, tb.room(t).Phase())
		for id, score := range tb.room(t).Scores() {
			assert.GreaterOrEqual(t, score, 0, id)
		}

		tb.clock.fire(t, 10*time.Second)
	}

	ended, ok := lastOf[GameEnded](tb.out["p1"])
	require.True(t, ok)
	return ended.FinalScores
}

func TestScoringIgnoresArrivalOrder(t *testing.T) {
	opts := cmp.Options{
		cmpopts.SortSlices(func(a, b string) bool { return a < b }),
		cmpopts.EquateEmpty(),
	}

	for n := MinPlayers; n <= JokeFactory.MaxPlayers(); n++ {
		for seed := uint64(1); seed <= 5; seed++ {
			t.Run(fmt.Sprintf("jokes/%d/%d", n, seed), func(t *testing.T) {
				forward := playJokes(t, n, seed, false)
				backward := playJokes(t, n, seed, true)

				require.Len(t, forward, n)
				if diff := cmp.Diff(forward, backward, opts); diff != "" {
					t.Errorf("final scores depend on arrival order (-forward +backward):\n%s", diff)
				}
			})
		}
	}

	for n := MinPlayers; n <= TruthTales.MaxPlayers(); n++ {
		for seed := uint64(1); seed <= 5; seed++ {
			t.Run(fmt.Sprintf("tales/%d/%d", n, seed), func(t *testing.T) {
				forward := playTales(t, n, seed, false)
				backward := playTales(t, n, seed, true)

				require.Len(t, forward, n)
				if diff := cmp.Diff(forward, backward, opts); diff != "" {
					t.Errorf("final scores depend on arrival order (-forward +backward):\n%s", diff)
				}
			})
		}
	}
}
