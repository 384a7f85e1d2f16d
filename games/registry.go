package games

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	codeLetters     = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	codeLength      = 4
	maxCodeAttempts = 1000
)

// ErrCodeSpaceExhausted is an internal fault: no free room code was found.
var ErrCodeSpaceExhausted = errors.New("unable to allocate a free room code")

// Registry owns every live room, keyed by code.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room

	content Content
	clock   Clock
	rules   Rules
	log     zerolog.Logger
	now     func() time.Time
	newCode func() string
	seed    func() (uint64, uint64)
	maxAge  time.Duration
}

type Option func(*Registry)

func WithContent(c Content) Option {
	return func(r *Registry) { r.content = c }
}

func WithClock(c Clock) Option {
	return func(r *Registry) { r.clock = c }
}

func WithRules(rules Rules) Option {
	return func(r *Registry) { r.rules = rules }
}

func WithLogger(l zerolog.Logger) Option {
	return func(r *Registry) { r.log = l }
}

// WithNow overrides the wall clock used for activity tracking.
func WithNow(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// WithCodeGenerator overrides random room codes.
func WithCodeGenerator(gen func() string) Option {
	return func(r *Registry) { r.newCode = gen }
}

// WithSeed makes every room's randomness reproducible: room n is seeded
// with (seed, n).
func WithSeed(seed uint64) Option {
	return func(r *Registry) {
		var n uint64
		var mu sync.Mutex
		r.seed = func() (uint64, uint64) {
			mu.Lock()
			defer mu.Unlock()
			n++
			return seed, n
		}
	}
}

// WithMaxAge sets how long a room may sit idle before Sweep purges it.
func WithMaxAge(d time.Duration) Option {
	return func(r *Registry) { r.maxAge = d }
}

func NewRegistry(opts ...Option) *Registry {
	reg := &Registry{
		rooms:   make(map[string]*Room),
		content: DefaultLibrary(),
		clock:   realClock{},
		rules:   DefaultRules(),
		log:     zerolog.Nop(),
		now:     time.Now,
		newCode: randomCode,
		seed:    cryptoSeed,
		maxAge:  2 * time.Hour,
	}
	for _, opt := range opts {
		opt(reg)
	}
	return reg
}

func randomCode() string {
	buf := make([]byte, codeLength)
	if _, err := crand.Read(buf); err != nil {
		panic("crypto/rand failure: " + err.Error())
	}

	out := make([]byte, codeLength)
	for i := range out {
		out[i] = codeLetters[int(buf[i])%len(codeLetters)]
	}
	return string(out)
}

func cryptoSeed() (uint64, uint64) {
	var b [16]byte
	if _, err := crand.Read(b[:]); err != nil {
		panic("crypto/rand failure: " + err.Error())
	}
	return binary.LittleEndian.Uint64(b[:8]), binary.LittleEndian.Uint64(b[8:])
}

// Len is the number of live rooms.
func (reg *Registry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	return len(reg.rooms)
}

// Create opens a new room and seats the creator as host.
func (reg *Registry) Create(variant Variant, playerID, name string, out Outbox) (string, error) {
	if variant != JokeFactory && variant != TruthTales {
		return "", invalidInput("Unknown game type")
	}
	name, err := CleanName(name)
	if err != nil {
		return "", err
	}

	reg.mu.Lock()
	code := ""
	for range maxCodeAttempts {
		c := reg.newCode()
		if _, exists := reg.rooms[c]; !exists {
			code = c
			break
		}
	}
	if code == "" {
		reg.mu.Unlock()
		reg.log.Error().Int("rooms", reg.Len()).Msg("room code space exhausted")
		return "", ErrCodeSpaceExhausted
	}

	s1, s2 := reg.seed()
	room := newRoom(code, variant, reg, rand.New(rand.NewPCG(s1, s2)))
	reg.rooms[code] = room
	reg.mu.Unlock()

	if _, err := room.join(playerID, name, out, true); err != nil {
		reg.remove(code, room)
		return "", err
	}

	reg.log.Info().Str("room", code).Str("game", string(variant)).Msg("room created")

	return code, nil
}

// Room looks up a live room. Codes are case-insensitive.
func (reg *Registry) Room(code string) (*Room, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	reg.mu.RLock()
	room, ok := reg.rooms[code]
	reg.mu.RUnlock()

	if !ok {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

func (reg *Registry) Join(code, playerID, name string, out Outbox) (PlayerInfo, error) {
	name, err := CleanName(name)
	if err != nil {
		return PlayerInfo{}, err
	}
	room, err := reg.Room(code)
	if err != nil {
		return PlayerInfo{}, err
	}
	return room.join(playerID, name, out, false)
}

func (reg *Registry) Start(code, playerID string) error {
	room, err := reg.Room(code)
	if err != nil {
		return err
	}
	return room.start(playerID)
}

func (reg *Registry) SubmitAnswer(code, playerID, answer string) error {
	room, err := reg.Room(code)
	if err != nil {
		return err
	}
	return room.submitAnswer(playerID, answer)
}

func (reg *Registry) SubmitVote(code, playerID string, index int) error {
	room, err := reg.Room(code)
	if err != nil {
		return err
	}
	return room.submitVote(playerID, index)
}

func (reg *Registry) SubmitStory(code, playerID, story string) error {
	room, err := reg.Room(code)
	if err != nil {
		return err
	}
	return room.submitStory(playerID, story)
}

func (reg *Registry) SubmitGuess(code, playerID string, storyID int, authorID string) error {
	room, err := reg.Room(code)
	if err != nil {
		return err
	}
	return room.submitGuess(playerID, storyID, authorID)
}

// Leave removes a player and tears the room down once it is empty.
func (reg *Registry) Leave(code, playerID string) error {
	room, err := reg.Room(code)
	if err != nil {
		return err
	}

	empty, err := room.leave(playerID)
	if empty {
		reg.remove(room.Code(), room)
	}
	return err
}

// remove deletes the room if it is still the one registered under code.
func (reg *Registry) remove(code string, room *Room) {
	reg.mu.Lock()
	if reg.rooms[code] == room {
		delete(reg.rooms, code)
	}
	reg.mu.Unlock()

	room.close("")

	reg.log.Info().Str("room", code).Msg("room removed")
}

// Sweep purges rooms idle for longer than the max age and returns how many
// were removed.
func (reg *Registry) Sweep(now time.Time) int {
	cutoff := now.Add(-reg.maxAge)

	var stale []*Room

	reg.mu.Lock()
	for code, room := range reg.rooms {
		if room.LastActive().Before(cutoff) {
			delete(reg.rooms, code)
			stale = append(stale, room)
		}
	}
	reg.mu.Unlock()

	for _, room := range stale {
		room.close("Room closed after inactivity")
		reg.log.Info().Str("room", room.Code()).Msg("idle room purged")
	}

	return len(stale)
}

// Run sweeps idle rooms until ctx is cancelled.
func (reg *Registry) Run(ctx context.Context) error {
	if reg.maxAge <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(reg.maxAge / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			reg.Sweep(reg.now())
		}
	}
}

// Close tears down every room, e.g. on shutdown.
func (reg *Registry) Close() {
	reg.mu.Lock()
	rooms := reg.rooms
	reg.rooms = make(map[string]*Room)
	reg.mu.Unlock()

	for _, room := range rooms {
		room.close("Server is shutting down")
	}
}
