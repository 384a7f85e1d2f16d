package main

import (
	"encoding/json"
	"strings"

	"github.com/Seednode/showdown/games"
)

const maxMessageSize = 8 << 10

// command is the closed set of messages a client may send.
type command interface {
	validate() error
}

type createRoom struct {
	PlayerName string `json:"playerName"`
	GameType   string `json:"gameType"`
}

type joinRoom struct {
	RoomCode   string `json:"roomCode"`
	PlayerName string `json:"playerName"`
}

type startGame struct {
	RoomCode string `json:"roomCode"`
}

type submitAnswer struct {
	RoomCode string `json:"roomCode"`
	Answer   string `json:"answer"`
}

type submitStory struct {
	RoomCode string `json:"roomCode"`
	Story    string `json:"story"`
}

type submitVote struct {
	RoomCode     string `json:"roomCode"`
	SubmissionID *int   `json:"submissionId"`
}

type submitGuess struct {
	RoomCode        string `json:"roomCode"`
	StoryID         *int   `json:"storyId"`
	GuessedAuthorID string `json:"guessedAuthorId"`
}

func badRequest(message string) error {
	return &games.Error{Code: games.CodeInvalidInput, Message: message}
}

func requireRoom(code string) error {
	if strings.TrimSpace(code) == "" {
		return badRequest("Missing room code")
	}
	return nil
}

func (c createRoom) validate() error {
	if strings.TrimSpace(c.PlayerName) == "" {
		return badRequest("Missing player name")
	}
	return nil
}

func (c joinRoom) validate() error {
	if err := requireRoom(c.RoomCode); err != nil {
		return err
	}
	if strings.TrimSpace(c.PlayerName) == "" {
		return badRequest("Missing player name")
	}
	return nil
}

func (c startGame) validate() error {
	return requireRoom(c.RoomCode)
}

func (c submitAnswer) validate() error {
	return requireRoom(c.RoomCode)
}

func (c submitStory) validate() error {
	return requireRoom(c.RoomCode)
}

func (c submitVote) validate() error {
	if err := requireRoom(c.RoomCode); err != nil {
		return err
	}
	if c.SubmissionID == nil {
		return badRequest("Missing submission id")
	}
	return nil
}

func (c submitGuess) validate() error {
	if err := requireRoom(c.RoomCode); err != nil {
		return err
	}
	if c.StoryID == nil {
		return badRequest("Missing story id")
	}
	if strings.TrimSpace(c.GuessedAuthorID) == "" {
		return badRequest("Missing guessed author")
	}
	return nil
}

// decodeCommand parses one websocket frame. The returned type name is
// empty when the frame is not a JSON object with a type.
func decodeCommand(data []byte) (string, command, error) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return "", nil, badRequest("Malformed message")
	}

	var cmd command
	switch envelope.Type {
	case "createRoom":
		cmd = &createRoom{}
	case "joinRoom":
		cmd = &joinRoom{}
	case "startGame":
		cmd = &startGame{}
	case "submitAnswer":
		cmd = &submitAnswer{}
	case "submitStory":
		cmd = &submitStory{}
	case "submitVote":
		cmd = &submitVote{}
	case "submitGuess":
		cmd = &submitGuess{}
	case "":
		return "", nil, badRequest("Missing message type")
	default:
		return envelope.Type, nil, badRequest("Unknown message type")
	}

	if err := json.Unmarshal(data, cmd); err != nil {
		return envelope.Type, nil, badRequest("Malformed " + envelope.Type + " message")
	}
	if err := cmd.validate(); err != nil {
		return envelope.Type, nil, err
	}

	return envelope.Type, cmd, nil
}
