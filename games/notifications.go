package games

import "errors"

// Outbox receives notifications for a single player. Implementations must
// not block: rooms deliver while holding their lock.
type Outbox interface {
	Send(n Notification)
}

// Notification is the closed set of messages the core emits.
type Notification interface {
	notification()
}

// PlayerInfo is the public view of a player in a room.
type PlayerInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Score  int    `json:"score"`
	IsHost bool   `json:"isHost"`
}

// Standing is one row of a scoreboard.
type Standing struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Score        int      `json:"score"`
	Achievements []string `json:"achievements,omitempty"`
}

type RoomCreated struct {
	Type     string       `json:"type"` // "roomCreated"
	RoomCode string       `json:"roomCode"`
	PlayerID string       `json:"playerId"`
	IsHost   bool         `json:"isHost"`
	GameType Variant      `json:"gameType"`
	Players  []PlayerInfo `json:"players"`
}

type RoomJoined struct {
	Type     string       `json:"type"` // "roomJoined"
	RoomCode string       `json:"roomCode"`
	PlayerID string       `json:"playerId"`
	IsHost   bool         `json:"isHost"`
	GameType Variant      `json:"gameType"`
	Players  []PlayerInfo `json:"players"`
}

type PlayerJoined struct {
	Type    string       `json:"type"` // "playerJoined"
	Players []PlayerInfo `json:"players"`
}

type PlayerLeft struct {
	Type       string       `json:"type"` // "playerLeft"
	PlayerName string       `json:"playerName"`
	Players    []PlayerInfo `json:"players"`
}

type HostChanged struct {
	Type    string       `json:"type"` // "hostChanged"
	NewHost string       `json:"newHost"`
	Players []PlayerInfo `json:"players"`
}

type GameStarting struct {
	Type         string  `json:"type"` // "gameStarting"
	GameType     Variant `json:"gameType"`
	TotalPlayers int     `json:"totalPlayers"`
	TotalRounds  int     `json:"totalRounds"`
}

// HostSpeaks carries a line of commentary from the virtual host.
type HostSpeaks struct {
	Type string `json:"type"` // "hostSpeaks"
	Line string `json:"line"`
	Kind string `json:"kind"`
}

// RoundStarted is sent privately in JokeFactory (each player has their own
// prompt) and broadcast in TruthTales (one shared topic).
type RoundStarted struct {
	Type      string `json:"type"` // "roundStarted"
	Round     int    `json:"round"`
	RoundName string `json:"roundName"`
	RoundType Kind   `json:"roundType"`
	Content   string `json:"content"`
	TimeLimit int    `json:"timeLimit"`
}

type SubmissionReceived struct {
	Type string `json:"type"` // "submissionReceived" or "storyReceived"
}

type VoteReceived struct {
	Type string `json:"type"` // "voteReceived" or "guessReceived"
}

// Progress reports how many of the required players have responded.
type Progress struct {
	Type      string `json:"type"` // "submissionProgress", "voteProgress" or "guessProgress"
	Submitted int    `json:"submitted"`
	Total     int    `json:"total"`
}

type VotingOption struct {
	Index int    `json:"id"`
	Text  string `json:"text"`
}

type VotingStarted struct {
	Type      string         `json:"type"` // "votingStarted"
	Options   []VotingOption `json:"submissions"`
	TimeLimit int            `json:"timeLimit"`
}

type StoryOption struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// GuessingStarted is personalised: Stories never contains the recipient's
// own story.
type GuessingStarted struct {
	Type      string        `json:"type"` // "guessingStarted"
	Topic     string        `json:"topic"`
	Stories   []StoryOption `json:"stories"`
	Players   []PlayerInfo  `json:"players"`
	TimeLimit int           `json:"timeLimit"`
}

type JokeResult struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Submission string `json:"submission"`
	Votes      int    `json:"votes"`
	Unanimous  bool   `json:"unanimous,omitempty"`
	NoVotes    bool   `json:"noVotes,omitempty"`
	Reaction   string `json:"reaction"`
}

type GuessDetail struct {
	Guesser       string `json:"guesser"`
	GuessedAuthor string `json:"guessedAuthor"`
	Correct       bool   `json:"correct"`
}

type StoryResult struct {
	StoryID        int           `json:"storyId"`
	Story          string        `json:"story"`
	AuthorID       string        `json:"authorId"`
	Author         string        `json:"author"`
	CorrectGuesses int           `json:"correctGuesses"`
	TotalGuesses   int           `json:"totalGuesses"`
	FooledEveryone bool          `json:"fooledEveryone,omitempty"`
	Guesses        []GuessDetail `json:"guesses"`
}

// RoundResults carries either Jokes or Stories depending on the variant.
type RoundResults struct {
	Type    string        `json:"type"` // "roundResults"
	Round   int           `json:"round"`
	Jokes   []JokeResult  `json:"results,omitempty"`
	Stories []StoryResult `json:"stories,omitempty"`
	Scores  []Standing    `json:"scores"`
}

type GameEnded struct {
	Type        string     `json:"type"` // "gameEnded"
	Winner      Standing   `json:"winner"`
	FinalScores []Standing `json:"finalScores"`
}

type RoomClosed struct {
	Type    string `json:"type"` // "roomClosed"
	Message string `json:"message"`
}

// ErrorNotice reports a rejected command to the connection that issued it.
type ErrorNotice struct {
	Type    string `json:"type"` // "error"
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (RoomCreated) notification()        {}
func (RoomJoined) notification()         {}
func (PlayerJoined) notification()       {}
func (PlayerLeft) notification()         {}
func (HostChanged) notification()        {}
func (GameStarting) notification()       {}
func (HostSpeaks) notification()         {}
func (RoundStarted) notification()       {}
func (SubmissionReceived) notification() {}
func (VoteReceived) notification()       {}
func (Progress) notification()           {}
func (VotingStarted) notification()      {}
func (GuessingStarted) notification()    {}
func (RoundResults) notification()       {}
func (GameEnded) notification()          {}
func (RoomClosed) notification()         {}
func (ErrorNotice) notification()        {}

// NewErrorNotice converts any error into the notice sent to clients.
// Errors outside the rejection taxonomy are reported generically.
func NewErrorNotice(err error) ErrorNotice {
	var e *Error
	if errors.As(err, &e) {
		return ErrorNotice{Type: "error", Code: e.Code, Message: e.Message}
	}
	return ErrorNotice{Type: "error", Code: CodeInternal, Message: "Something went wrong. Please try again."}
}
