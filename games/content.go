package games

import (
	"fmt"
	"math/rand/v2"
)

// Kind names a pool of prompt material.
type Kind string

const (
	KindPunchlines  Kind = "punchlines"
	KindSetups      Kind = "setups"
	KindTopics      Kind = "topics"
	KindStoryTopics Kind = "storyTopics"
)

// Content supplies prompt material. Implementations are read-only and must
// be safe for concurrent use; all randomness comes from the caller's rng.
type Content interface {
	Size(kind Kind) int
	Pick(rng *rand.Rand, kind Kind, n int) ([]string, error)
}

// Library is a Content backed by fixed in-memory pools.
type Library struct {
	pools map[Kind][]string
}

// NewLibrary builds a Library from the given pools. The slices are not
// copied and must not be modified afterwards.
func NewLibrary(pools map[Kind][]string) *Library {
	return &Library{pools: pools}
}

// DefaultLibrary returns the built-in prompt pools.
func DefaultLibrary() *Library {
	return NewLibrary(map[Kind][]string{
		KindPunchlines:  punchlines,
		KindSetups:      setups,
		KindTopics:      jokeTopics,
		KindStoryTopics: storyTopics,
	})
}

func (l *Library) Size(kind Kind) int {
	return len(l.pools[kind])
}

// Pick returns n distinct items from the pool in random order.
func (l *Library) Pick(rng *rand.Rand, kind Kind, n int) ([]string, error) {
	pool := l.pools[kind]
	if n < 0 || n > len(pool) {
		return nil, newError(CodeInsufficientContent,
			fmt.Sprintf("Not enough %s for %d players", kind, n))
	}

	idx := rng.Perm(len(pool))[:n]

	out := make([]string, n)
	for i, j := range idx {
		out[i] = pool[j]
	}

	return out, nil
}
