package games

import (
	"cmp"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Room is one isolated game session. All mutable state is guarded by mu;
// every command and timer callback runs to completion while holding it.
type Room struct {
	mu sync.Mutex

	code    string
	variant Variant
	rules   Rules
	content Content
	clock   Clock
	now     func() time.Time
	rng     *rand.Rand
	log     zerolog.Logger

	players []*Player
	hostID  string
	phase   Phase
	round   int
	scores  map[string]int

	// names remembers everyone who played in the current game so results
	// can still credit players who have since disconnected.
	names        map[string]string
	achievements map[string][]string
	storyTopics  []string

	jokes *jokeRound
	tales *taleRound

	// version increments on every phase entry; timers scheduled under an
	// older version are discarded.
	version    uint64
	timers     []Timer
	closed     bool
	lastActive time.Time
}

func newRoom(code string, variant Variant, reg *Registry, rng *rand.Rand) *Room {
	return &Room{
		code:         code,
		variant:      variant,
		rules:        reg.rules,
		content:      reg.content,
		clock:        reg.clock,
		now:          reg.now,
		rng:          rng,
		log:          reg.log.With().Str("room", code).Str("game", string(variant)).Logger(),
		phase:        PhaseWaiting,
		scores:       make(map[string]int),
		names:        make(map[string]string),
		achievements: make(map[string][]string),
		lastActive:   reg.now(),
	}
}

func (r *Room) Code() string {
	return r.code
}

func (r *Room) Variant() Variant {
	return r.variant
}

func (r *Room) Phase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.phase
}

func (r *Room) Round() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.round
}

// Players returns the roster in join order.
func (r *Room) Players() []PlayerInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.playerInfosLocked()
}

// Scores returns a copy of the running totals, including players who left
// mid-game.
func (r *Room) Scores() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]int, len(r.scores))
	for id, s := range r.scores {
		out[id] = s
	}
	return out
}

// LastActive reports when the room last handled a command.
func (r *Room) LastActive() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.lastActive
}

// join adds a player. created selects the roomCreated acknowledgement
// instead of roomJoined.
func (r *Room) join(id, name string, out Outbox, created bool) (PlayerInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return PlayerInfo{}, ErrRoomNotFound
	}
	r.lastActive = r.now()

	if r.phase != PhaseWaiting {
		return PlayerInfo{}, ErrGameInProgress
	}
	if len(r.players) >= r.variant.MaxPlayers() {
		return PlayerInfo{}, newError(CodeRoomFull,
			fmt.Sprintf("Room is full (max %d players)", r.variant.MaxPlayers()))
	}
	for _, p := range r.players {
		if p.ID == id {
			return PlayerInfo{}, invalidInput("You are already in this room")
		}
		if sameName(p.Name, name) {
			return PlayerInfo{}, ErrNameTaken
		}
	}

	p := &Player{ID: id, Name: name, out: out}
	if len(r.players) == 0 {
		p.IsHost = true
		r.hostID = id
	}
	r.players = append(r.players, p)

	r.log.Debug().Str("player", name).Int("players", len(r.players)).Msg("player joined")

	infos := r.playerInfosLocked()
	if created {
		p.send(RoomCreated{
			Type:     "roomCreated",
			RoomCode: r.code,
			PlayerID: id,
			IsHost:   p.IsHost,
			GameType: r.variant,
			Players:  infos,
		})
	} else {
		p.send(RoomJoined{
			Type:     "roomJoined",
			RoomCode: r.code,
			PlayerID: id,
			IsHost:   p.IsHost,
			GameType: r.variant,
			Players:  infos,
		})
		r.broadcastLocked(PlayerJoined{Type: "playerJoined", Players: infos})
	}

	return r.infoLocked(p), nil
}

// leave removes a player and reports whether the room is now empty. An
// empty room is closed before leave returns so no late join can land in
// it.
func (r *Room) leave(id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return true, ErrRoomNotFound
	}

	i := r.indexLocked(id)
	if i < 0 {
		return false, ErrNotInRoom
	}
	r.lastActive = r.now()

	gone := r.players[i]
	r.players = slices.Delete(r.players, i, i+1)

	r.log.Debug().Str("player", gone.Name).Int("players", len(r.players)).Msg("player left")

	if len(r.players) == 0 {
		r.closeLocked("")
		return true, nil
	}

	if gone.ID == r.hostID {
		next := r.players[0]
		next.IsHost = true
		r.hostID = next.ID
		r.broadcastLocked(HostChanged{
			Type:    "hostChanged",
			NewHost: next.Name,
			Players: r.playerInfosLocked(),
		})
	}

	r.broadcastLocked(PlayerLeft{
		Type:       "playerLeft",
		PlayerName: gone.Name,
		Players:    r.playerInfosLocked(),
	})

	// The departed player may have been the last one pending.
	r.checkCompletionLocked()

	return false, nil
}

// start begins the game on behalf of the host.
func (r *Room) start(requesterID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.commandLocked(requesterID); err != nil {
		return err
	}
	if requesterID != r.hostID {
		return ErrNotHost
	}
	if r.phase != PhaseWaiting {
		return ErrAlreadyStarted
	}
	if len(r.players) < MinPlayers {
		return ErrNotEnoughPlayers
	}
	if err := r.checkContentLocked(); err != nil {
		return err
	}

	r.scores = make(map[string]int, len(r.players))
	r.names = make(map[string]string, len(r.players))
	r.achievements = make(map[string][]string)
	for _, p := range r.players {
		r.scores[p.ID] = 0
		r.names[p.ID] = p.Name
	}

	if r.variant == TruthTales {
		topics, err := r.content.Pick(r.rng, KindStoryTopics, TotalRounds)
		if err != nil {
			return err
		}
		r.storyTopics = topics
	}

	r.log.Info().Int("players", len(r.players)).Msg("game started")

	r.broadcastLocked(GameStarting{
		Type:         "gameStarting",
		GameType:     r.variant,
		TotalPlayers: len(r.players),
		TotalRounds:  TotalRounds,
	})
	if r.variant == JokeFactory {
		r.broadcastLocked(HostSpeaks{Type: "hostSpeaks", Line: pickLine(r.rng, gameStartLines), Kind: "welcome"})
	}

	r.startRoundLocked(1)

	return nil
}

// checkContentLocked verifies up front that every round of the game can
// be supplied for the current player count. Players cannot join mid-game,
// so later rounds never need more.
func (r *Room) checkContentLocked() error {
	n := len(r.players)

	switch r.variant {
	case JokeFactory:
		for round := 1; round <= TotalRounds; round++ {
			kind := jokeRounds[round].kind
			if r.content.Size(kind) < n {
				return newError(CodeInsufficientContent,
					fmt.Sprintf("Not enough %s for %d players", kind, n))
			}
		}
	case TruthTales:
		if r.content.Size(KindStoryTopics) < TotalRounds {
			return newError(CodeInsufficientContent,
				fmt.Sprintf("Not enough story topics for %d rounds", TotalRounds))
		}
	}

	return nil
}

// commandLocked performs the checks shared by every player command.
func (r *Room) commandLocked(playerID string) error {
	if r.closed {
		return ErrRoomNotFound
	}
	if r.indexLocked(playerID) < 0 {
		return ErrNotInRoom
	}
	r.lastActive = r.now()
	return nil
}

// close stops all timers and notifies whoever is still connected.
func (r *Room) close(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closeLocked(reason)
}

func (r *Room) closeLocked(reason string) {
	if r.closed {
		return
	}
	r.closed = true
	r.stopTimersLocked()
	r.version++

	if reason != "" {
		r.broadcastLocked(RoomClosed{Type: "roomClosed", Message: reason})
	}

	r.log.Debug().Msg("room closed")
}

func (r *Room) indexLocked(id string) int {
	return slices.IndexFunc(r.players, func(p *Player) bool { return p.ID == id })
}

func (r *Room) playerLocked(id string) *Player {
	if i := r.indexLocked(id); i >= 0 {
		return r.players[i]
	}
	return nil
}

func (r *Room) broadcastLocked(n Notification) {
	for _, p := range r.players {
		p.send(n)
	}
}

func (r *Room) infoLocked(p *Player) PlayerInfo {
	return PlayerInfo{
		ID:     p.ID,
		Name:   p.Name,
		Score:  r.scores[p.ID],
		IsHost: p.IsHost,
	}
}

func (r *Room) playerInfosLocked() []PlayerInfo {
	infos := make([]PlayerInfo, 0, len(r.players))
	for _, p := range r.players {
		infos = append(infos, r.infoLocked(p))
	}
	return infos
}

// nameLocked resolves a player id to a display name, including players who
// already left.
func (r *Room) nameLocked(id string) string {
	if p := r.playerLocked(id); p != nil {
		return p.Name
	}
	if name, ok := r.names[id]; ok {
		return name
	}
	return "Unknown"
}

func (r *Room) awardLocked(id, achievement string) {
	if !slices.Contains(r.achievements[id], achievement) {
		r.achievements[id] = append(r.achievements[id], achievement)
	}
}

// standingsLocked ranks the current players by score, ties broken by name.
func (r *Room) standingsLocked() []Standing {
	out := make([]Standing, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, Standing{
			ID:           p.ID,
			Name:         p.Name,
			Score:        r.scores[p.ID],
			Achievements: slices.Clone(r.achievements[p.ID]),
		})
	}

	slices.SortStableFunc(out, func(a, b Standing) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})

	return out
}
