/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

import (
	"fmt"
	"strings"
	"time"
)

// Variant selects which game a room runs. It is fixed at creation.
type Variant string

const (
	JokeFactory Variant = "joke_factory"
	TruthTales  Variant = "truth_tales"
)

const (
	MinPlayers  = 3
	TotalRounds = 3
)

// ParseVariant accepts the wire names and a few friendly aliases. An empty
// string selects JokeFactory.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "joke_factory", "joke-factory", "jokefactory":
		return JokeFactory, nil
	case "truth_tales", "truth-tales", "truthtales":
		return TruthTales, nil
	}
	return "", invalidInput(fmt.Sprintf("Unknown game type %q", s))
}

// MaxPlayers is the room capacity for the variant.
func (v Variant) MaxPlayers() int {
	if v == TruthTales {
		return 8
	}
	return 6
}

func (v Variant) Title() string {
	if v == TruthTales {
		return "Truth Tales"
	}
	return "Joke Factory"
}

// Phase is the room's state-machine tag.
type Phase string

const (
	PhaseWaiting  Phase = "waiting"
	PhaseWriting  Phase = "writing"
	PhaseVoting   Phase = "voting"
	PhaseGuessing Phase = "guessing"
	PhaseResults  Phase = "results"
	PhaseEnded    Phase = "ended"
)

// Rules holds the tunable timings and limits of a room.
type Rules struct {
	WritingTime    time.Duration
	VotingTime     time.Duration
	GuessingTime   time.Duration
	ResultsTime    time.Duration
	StoryMinLength int
}

func DefaultRules() Rules {
	return Rules{
		WritingTime:    90 * time.Second,
		VotingTime:     30 * time.Second,
		GuessingTime:   60 * time.Second,
		ResultsTime:    10 * time.Second,
		StoryMinLength: 20,
	}
}

// Clock schedules deferred callbacks. Tests substitute a manual clock.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is the handle of a scheduled callback.
type Timer interface {
	Stop() bool
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
