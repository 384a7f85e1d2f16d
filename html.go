/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Seednode/showdown/games"
	"github.com/julienschmidt/httprouter"
)

var variants = []games.Variant{games.JokeFactory, games.TruthTales}

type gameInfo struct {
	ID         games.Variant `json:"id"`
	Name       string        `json:"name"`
	MinPlayers int           `json:"minPlayers"`
	MaxPlayers int           `json:"maxPlayers"`
	Rounds     int           `json:"rounds"`
}

func gameInfos() []gameInfo {
	out := make([]gameInfo, 0, len(variants))
	for _, v := range variants {
		out = append(out, gameInfo{
			ID:         v,
			Name:       v.Title(),
			MinPlayers: games.MinPlayers,
			MaxPlayers: v.MaxPlayers(),
			Rounds:     games.TotalRounds,
		})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)+1))
	w.WriteHeader(status)

	_, err = w.Write(append(data, '\n'))
	return err
}

func serveHomePage(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		var body strings.Builder

		body.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		body.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		body.WriteString(`<title>showdown</title></head><body><h1>showdown</h1><ul>`)
		for _, g := range gameInfos() {
			body.WriteString(fmt.Sprintf("<li><strong>%s</strong>: %d-%d players, %d rounds</li>",
				html.EscapeString(g.Name), g.MinPlayers, g.MaxPlayers, g.Rounds))
		}
		body.WriteString(fmt.Sprintf(`</ul><p>Connect a client to <code>%s/ws</code> to play.</p></body></html>`,
			html.EscapeString(cfg.prefix)))

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		securityHeaders(cfg, w)

		_, _ = w.Write([]byte(body.String()))
	}
}

func serveGames(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		securityHeaders(cfg, w)

		if err := writeJSON(w, http.StatusOK, gameInfos()); err != nil {
			cfg.log.Debug().Err(err).Msg("writing game list")
		}
	}
}

func serveHealthCheck(cfg *Config, reg *games.Registry) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Cache-Control", "no-store")
		securityHeaders(cfg, w)

		status := struct {
			Status      string          `json:"status"`
			ActiveRooms int             `json:"activeRooms"`
			Games       []games.Variant `json:"games"`
		}{
			Status:      "ok",
			ActiveRooms: reg.Len(),
			Games:       variants,
		}

		if err := writeJSON(w, http.StatusOK, status); err != nil {
			cfg.log.Debug().Err(err).Msg("writing health check")
		}
	}
}

func serveRobots(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		data := `User-agent: *
Disallow: /room/
Disallow: /ws

User-agent: GPTBot
Disallow: /

User-agent: CCBot
Disallow: /`

		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		securityHeaders(cfg, w)

		_, _ = w.Write([]byte(data))
	}
}
