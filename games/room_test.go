package games

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinRejections(t *testing.T) {
	tb := newTable(t, JokeFactory, 3)

	t.Run("duplicate name", func(t *testing.T) {
		before := tb.room(t).Players()

		_, err := tb.reg.Join(tb.code, "x1", "Player2", &recorder{})
		assert.ErrorIs(t, err, ErrNameTaken)

		assert.Equal(t, before, tb.room(t).Players())
	})

	t.Run("duplicate name ignoring case", func(t *testing.T) {
		_, err := tb.reg.Join(tb.code, "x1", "  PLAYER2 ", &recorder{})
		assert.ErrorIs(t, err, ErrNameTaken)
	})

	t.Run("name too short", func(t *testing.T) {
		_, err := tb.reg.Join(tb.code, "x1", " a ", &recorder{})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("unknown room", func(t *testing.T) {
		_, err := tb.reg.Join("ZZZZ", "x1", "Someone", &recorder{})
		assert.ErrorIs(t, err, ErrRoomNotFound)
	})

	t.Run("room code is case-insensitive", func(t *testing.T) {
		_, err := tb.reg.Join("abcd", "x1", "Lowercase", &recorder{})
		require.NoError(t, err)
		require.NoError(t, tb.reg.Leave(tb.code, "x1"))
	})

	t.Run("game in progress", func(t *testing.T) {
		require.NoError(t, tb.reg.Start(tb.code, "p1"))

		_, err := tb.reg.Join(tb.code, "x1", "Latecomer", &recorder{})
		assert.ErrorIs(t, err, ErrGameInProgress)
	})
}

func TestRoomFull(t *testing.T) {
	cases := []struct {
		variant Variant
		max     int
	}{
		{JokeFactory, 6},
		{TruthTales, 8},
	}

	for _, tc := range cases {
		t.Run(string(tc.variant), func(t *testing.T) {
			tb := newTable(t, tc.variant, tc.max)

			_, err := tb.reg.Join(tb.code, "extra", "Extra", &recorder{})
			assert.ErrorIs(t, err, ErrRoomFull)
			assert.Len(t, tb.room(t).Players(), tc.max)
		})
	}
}

func TestJoinNotifications(t *testing.T) {
	tb := newTable(t, JokeFactory, 2)

	created, ok := lastOf[RoomCreated](tb.out["p1"])
	require.True(t, ok)
	assert.Equal(t, "ABCD", created.RoomCode)
	assert.True(t, created.IsHost)
	assert.Equal(t, JokeFactory, created.GameType)

	joined, ok := lastOf[RoomJoined](tb.out["p2"])
	require.True(t, ok)
	assert.False(t, joined.IsHost)
	assert.Len(t, joined.Players, 2)

	pj, ok := lastOf[PlayerJoined](tb.out["p1"])
	require.True(t, ok)
	assert.Len(t, pj.Players, 2)
}

func TestStartRejections(t *testing.T) {
	t.Run("not host", func(t *testing.T) {
		tb := newTable(t, JokeFactory, 3)
		assert.ErrorIs(t, tb.reg.Start(tb.code, "p2"), ErrNotHost)
		assert.Equal(t, PhaseWaiting, tb.room(t).Phase())
	})

	t.Run("not enough players", func(t *testing.T) {
		tb := newTable(t, TruthTales, 2)
		assert.ErrorIs(t, tb.reg.Start(tb.code, "p1"), ErrNotEnoughPlayers)
	})

	t.Run("already started", func(t *testing.T) {
		tb := newTable(t, JokeFactory, 3)
		require.NoError(t, tb.reg.Start(tb.code, "p1"))
		assert.ErrorIs(t, tb.reg.Start(tb.code, "p1"), ErrAlreadyStarted)
	})

	t.Run("stranger", func(t *testing.T) {
		tb := newTable(t, JokeFactory, 3)
		assert.ErrorIs(t, tb.reg.Start(tb.code, "nobody"), ErrNotInRoom)
	})

	t.Run("insufficient content", func(t *testing.T) {
		lib := NewLibrary(map[Kind][]string{
			KindPunchlines: {"one", "two"},
			KindSetups:     {"one", "two", "three"},
			KindTopics:     {"one", "two", "three"},
		})
		tb := newTable(t, JokeFactory, 3, WithContent(lib))

		assert.ErrorIs(t, tb.reg.Start(tb.code, "p1"), ErrInsufficientContent)
		assert.Equal(t, PhaseWaiting, tb.room(t).Phase())
		assert.Equal(t, 0, tb.room(t).Round())
	})
}

func TestStartZeroesScores(t *testing.T) {
	tb := newTable(t, JokeFactory, 3)
	require.NoError(t, tb.reg.Start(tb.code, "p1"))

	assert.Equal(t, map[string]int{"p1": 0, "p2": 0, "p3": 0}, tb.room(t).Scores())
	assert.Equal(t, 1, tb.room(t).Round())

	starting, ok := lastOf[GameStarting](tb.out["p3"])
	require.True(t, ok)
	assert.Equal(t, 3, starting.TotalPlayers)
	assert.Equal(t, TotalRounds, starting.TotalRounds)
}

func TestHostHandover(t *testing.T) {
	tb := newTable(t, JokeFactory, 3)

	require.NoError(t, tb.reg.Leave(tb.code, "p1"))

	players := tb.room(t).Players()
	require.Len(t, players, 2)
	assert.Equal(t, "p2", players[0].ID)
	assert.True(t, players[0].IsHost)
	assert.Equal(t, 1, hostCount(players))

	changed, ok := lastOf[HostChanged](tb.out["p3"])
	require.True(t, ok)
	assert.Equal(t, "Player2", changed.NewHost)

	left, ok := lastOf[PlayerLeft](tb.out["p3"])
	require.True(t, ok)
	assert.Equal(t, "Player1", left.PlayerName)

	// The new host can start once the room fills up again.
	_, err := tb.reg.Join(tb.code, "p4", "Player4", &recorder{})
	require.NoError(t, err)
	assert.ErrorIs(t, tb.reg.Start(tb.code, "p3"), ErrNotHost)
	assert.NoError(t, tb.reg.Start(tb.code, "p2"))
}

func TestLeaveNonHostKeepsHost(t *testing.T) {
	tb := newTable(t, TruthTales, 3)

	require.NoError(t, tb.reg.Leave(tb.code, "p2"))

	assert.Equal(t, 0, countOf[HostChanged](tb.out["p1"]))
	assert.Equal(t, 1, hostCount(tb.room(t).Players()))
	assert.ErrorIs(t, tb.reg.Leave(tb.code, "p2"), ErrNotInRoom)
}

func TestExactlyOneHost(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		t.Run(fmt.Sprint(seed), func(t *testing.T) {
			rng := rand.New(rand.NewPCG(seed, 0))
			tb := newTable(t, TruthTales, 1)
			present := []string{"p1"}
			next := 2

			for step := 0; step < 40 && len(present) > 0; step++ {
				if len(present) < 8 && rng.IntN(2) == 0 {
					id := fmt.Sprintf("p%d", next)
					_, err := tb.reg.Join(tb.code, id, fmt.Sprintf("Player%d", next), &recorder{})
					require.NoError(t, err)
					present = append(present, id)
					next++
				} else {
					i := rng.IntN(len(present))
					require.NoError(t, tb.reg.Leave(tb.code, present[i]))
					present = append(present[:i], present[i+1:]...)
				}

				if len(present) == 0 {
					_, err := tb.reg.Room(tb.code)
					assert.ErrorIs(t, err, ErrRoomNotFound)
					break
				}

				players := tb.room(t).Players()
				require.Len(t, players, len(present))
				assert.Equal(t, 1, hostCount(players))
				assert.Equal(t, present[0], players[0].ID)
				assert.True(t, players[0].IsHost, "earliest-joined player must be host")
			}
		})
	}
}
