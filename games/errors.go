/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

// Code is a machine-readable rejection code sent to clients.
type Code string

const (
	CodeRoomNotFound        Code = "ROOM_NOT_FOUND"
	CodeNameTaken           Code = "NAME_TAKEN"
	CodeRoomFull            Code = "ROOM_FULL"
	CodeGameInProgress      Code = "GAME_IN_PROGRESS"
	CodeNotHost             Code = "NOT_HOST"
	CodeNotEnoughPlayers    Code = "NOT_ENOUGH_PLAYERS"
	CodeAlreadyStarted      Code = "ALREADY_STARTED"
	CodeInvalidPhase        Code = "INVALID_PHASE_FOR_ACTION"
	CodeCannotVoteSelf      Code = "CANNOT_VOTE_SELF"
	CodeCannotGuessSelf     Code = "CANNOT_GUESS_SELF"
	CodeInvalidGuessTarget  Code = "INVALID_GUESS_TARGET"
	CodeAlreadySubmitted    Code = "ALREADY_SUBMITTED"
	CodeInsufficientContent Code = "INSUFFICIENT_CONTENT"

	CodeInvalidInput      Code = "INVALID_INPUT"
	CodeInvalidVoteTarget Code = "INVALID_VOTE_TARGET"
	CodeNotInRoom         Code = "NOT_IN_ROOM"
	CodeRateLimited       Code = "RATE_LIMITED"
	CodeInternal          Code = "INTERNAL"
)

// Error is a recoverable, per-command rejection. It never affects other
// players or the room itself.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches any *Error carrying the same code, so callers can compare
// against the sentinels below even when the message was customised.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

func newError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

var (
	ErrRoomNotFound        = newError(CodeRoomNotFound, "Room not found")
	ErrNameTaken           = newError(CodeNameTaken, "Name already taken in this room")
	ErrRoomFull            = newError(CodeRoomFull, "Room is full")
	ErrGameInProgress      = newError(CodeGameInProgress, "Game already in progress")
	ErrNotHost             = newError(CodeNotHost, "Only the host can start the game")
	ErrNotEnoughPlayers    = newError(CodeNotEnoughPlayers, "Need at least 3 players to start")
	ErrAlreadyStarted      = newError(CodeAlreadyStarted, "Game has already started")
	ErrInvalidPhase        = newError(CodeInvalidPhase, "Cannot do that at this time")
	ErrCannotVoteSelf      = newError(CodeCannotVoteSelf, "You cannot vote for your own submission")
	ErrCannotGuessSelf     = newError(CodeCannotGuessSelf, "You cannot guess on your own story")
	ErrInvalidGuessTarget  = newError(CodeInvalidGuessTarget, "That player cannot be guessed")
	ErrAlreadySubmitted    = newError(CodeAlreadySubmitted, "You have already submitted")
	ErrInsufficientContent = newError(CodeInsufficientContent, "Not enough prompts for this many players")

	ErrInvalidInput      = newError(CodeInvalidInput, "Invalid input")
	ErrInvalidVoteTarget = newError(CodeInvalidVoteTarget, "That submission does not exist")
	ErrNotInRoom         = newError(CodeNotInRoom, "You are not in this room")
	ErrRateLimited       = newError(CodeRateLimited, "Slow down")
)

func invalidInput(message string) *Error {
	return newError(CodeInvalidInput, message)
}
