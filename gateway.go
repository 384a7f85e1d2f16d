/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Seednode/showdown/games"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const (
	sendBuffer = 64
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Gateway bridges websocket connections and the room registry. It holds no
// game state of its own.
type Gateway struct {
	cfg    *Config
	reg    *games.Registry
	log    zerolog.Logger
	tracer trace.Tracer
}

func newGateway(cfg *Config, reg *games.Registry) *Gateway {
	return &Gateway{
		cfg:    cfg,
		reg:    reg,
		log:    cfg.log.With().Str("component", "gateway").Logger(),
		tracer: tracer(),
	}
}

// Client is one websocket connection, and therefore one player identity.
type Client struct {
	id      string
	conn    *websocket.Conn
	limiter *rate.Limiter
	log     zerolog.Logger

	mu     sync.Mutex
	send   chan games.Notification
	closed bool

	// room is only touched by the read loop.
	room string
}

// Send queues n for delivery without blocking. A client that cannot keep
// up is disconnected.
func (c *Client) Send(n games.Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	select {
	case c.send <- n:
	default:
		c.log.Warn().Msg("send buffer full, dropping connection")
		c.closed = true
		close(c.send)
	}
}

func (c *Client) shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (g *Gateway) serveWS() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			g.log.Debug().Err(err).Str("remote", realIP(r)).Msg("upgrade failed")
			return
		}

		id := uuid.NewString()
		client := &Client{
			id:      id,
			conn:    conn,
			limiter: rate.NewLimiter(rate.Limit(g.cfg.commandRate), g.cfg.commandBurst),
			log:     g.log.With().Str("conn", id).Logger(),
			send:    make(chan games.Notification, sendBuffer),
		}

		logf(g.cfg, "WS: Connection %s opened from %s", id, realIP(r))

		go client.writePump()
		g.readPump(client)
	}
}

func (g *Gateway) readPump(c *Client) {
	defer func() {
		if c.room != "" {
			if err := g.reg.Leave(c.room, c.id); err != nil && !errors.Is(err, games.ErrRoomNotFound) {
				c.log.Debug().Err(err).Msg("leave on disconnect")
			}
		}
		c.shutdown()
		_ = c.conn.Close()

		logf(g.cfg, "WS: Connection %s closed", c.id)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))

		if !c.limiter.Allow() {
			c.Send(games.NewErrorNotice(games.ErrRateLimited))
			continue
		}

		g.dispatch(context.Background(), c, data)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// dispatch decodes and runs a single command. Rejections and panics are
// reported to the issuing connection only.
func (g *Gateway) dispatch(ctx context.Context, c *Client, data []byte) {
	_, span := g.tracer.Start(ctx, "command")
	defer span.End()

	defer func() {
		if v := recover(); v != nil {
			err := fmt.Errorf("panic: %v", v)
			c.log.Error().Err(err).Msg("command handler panicked")
			span.RecordError(err)
			span.SetStatus(codes.Error, "panic")
			c.Send(games.NewErrorNotice(err))
		}
	}()

	typ, cmd, err := decodeCommand(data)
	span.SetAttributes(
		attribute.String("command.type", typ),
		attribute.String("connection.id", c.id),
	)
	if err == nil {
		err = g.handle(c, cmd)
	}
	if c.room != "" {
		span.SetAttributes(attribute.String("room.code", c.room))
	}

	if err != nil {
		span.RecordError(err)
		c.log.Debug().Err(err).Str("command", typ).Msg("command rejected")
		c.Send(games.NewErrorNotice(err))
	}
}

func (g *Gateway) handle(c *Client, cmd command) error {
	switch cmd := cmd.(type) {
	case *createRoom:
		variant, err := games.ParseVariant(cmd.GameType)
		if err != nil {
			return err
		}
		code, err := g.reg.Create(variant, c.id, cmd.PlayerName, c)
		if err != nil {
			return err
		}
		g.moveTo(c, code)
		logf(g.cfg, "GAMES: Room %s (%s) created by %s", code, variant, c.id)
		return nil

	case *joinRoom:
		code := strings.ToUpper(strings.TrimSpace(cmd.RoomCode))
		if code == c.room {
			return badRequest("You are already in this room")
		}
		if _, err := g.reg.Join(code, c.id, cmd.PlayerName, c); err != nil {
			return err
		}
		g.moveTo(c, code)
		return nil

	case *startGame:
		return g.reg.Start(cmd.RoomCode, c.id)

	case *submitAnswer:
		return g.reg.SubmitAnswer(cmd.RoomCode, c.id, cmd.Answer)

	case *submitStory:
		return g.reg.SubmitStory(cmd.RoomCode, c.id, cmd.Story)

	case *submitVote:
		return g.reg.SubmitVote(cmd.RoomCode, c.id, *cmd.SubmissionID)

	case *submitGuess:
		return g.reg.SubmitGuess(cmd.RoomCode, c.id, *cmd.StoryID, cmd.GuessedAuthorID)
	}

	return fmt.Errorf("unhandled command %T", cmd)
}

// moveTo records code as the client's room, leaving the previous one.
func (g *Gateway) moveTo(c *Client, code string) {
	if c.room != "" && c.room != code {
		if err := g.reg.Leave(c.room, c.id); err != nil && !errors.Is(err, games.ErrRoomNotFound) {
			c.log.Debug().Err(err).Str("room", c.room).Msg("leave previous room")
		}
	}
	c.room = code
}
