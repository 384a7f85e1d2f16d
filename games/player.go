package games

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

const (
	minNameLength = 2
	maxNameLength = 24
)

// Player is a connected participant. IDs are ephemeral: a player who
// reconnects gets a new one.
type Player struct {
	ID     string
	Name   string
	IsHost bool

	out Outbox
}

func (p *Player) send(n Notification) {
	if p.out != nil {
		p.out.Send(n)
	}
}

// sameName compares display names ignoring case. A Caser is stateful, so
// each call gets its own.
func sameName(a, b string) bool {
	return cases.Fold().String(a) == cases.Fold().String(b)
}

// CleanName trims a display name and checks its length.
func CleanName(name string) (string, error) {
	name = strings.TrimSpace(name)

	n := utf8.RuneCountInString(name)
	if n < minNameLength {
		return "", invalidInput("Name must be at least 2 characters")
	}
	if n > maxNameLength {
		return "", invalidInput("Name must be at most 24 characters")
	}

	return name, nil
}
