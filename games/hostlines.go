package games

import (
	"math/rand/v2"
	"strings"
)

var (
	gameStartLines = []string{
		"Ladies and gentlemen, welcome to StandUp Showdown! I've seen funnier things at a DMV, but let's see what you've got!",
		"It's showtime! Remember, timing is everything in comedy. That's why I'm always late to parties!",
		"Welcome to StandUp Showdown, where dreams come true and egos get bruised!",
	}

	roundIntroLines = map[int][]string{
		1: {
			"Setup Battle begins! You'll get a punchline, you write the setup. It's like Jeopardy, but funny!",
			"Round 1: Setup Battle! Show us how you get to these punchlines. GPS not included!",
		},
		2: {
			"Punchline Challenge is up! This is where we separate the comedians from the people who think they're funny at parties!",
			"Punchline Challenge! The setup is ready, now stick the landing!",
		},
		3: {
			"Full Joke Creation, no training wheels! Netflix special material or open mic nightmare?",
			"The final round! You've got a topic, now make us laugh!",
		},
	}

	betweenSubmissionLines = []string{
		"Everyone's typing away! Remember, comedy is 10% inspiration and 90% desperation!",
		"I can feel the creative energy! Or is that just the air conditioning?",
	}

	votingStartLines = []string{
		"Time to vote! Remember, you can't vote for yourself. That's like laughing at your own jokes...",
		"Voting time! Pick your favorite, and try not to play favorites.",
	}

	winnerLines = []string{
		"And the winner is {name}! Someone call Netflix, we've got a star!",
		"{name} takes the crown! Your prize? The satisfaction of being funnier than your friends!",
	}
)

func pickLine(rng *rand.Rand, lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return lines[rng.IntN(len(lines))]
}

func winnerLine(rng *rand.Rand, name string) string {
	return strings.ReplaceAll(pickLine(rng, winnerLines), "{name}", name)
}

// Audience reactions by share of eligible voters, highest threshold first.
var reactions = []struct {
	threshold float64
	name      string
}{
	{0.8, "ovation"},
	{0.6, "strong"},
	{0.4, "medium"},
	{0.2, "mild"},
	{0, "crickets"},
}

func audienceReaction(votes, eligible int) string {
	if eligible <= 0 || votes <= 0 {
		return "crickets"
	}
	share := float64(votes) / float64(eligible)
	for _, r := range reactions {
		if share >= r.threshold {
			return r.name
		}
	}
	return "crickets"
}
