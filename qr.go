package main

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/Seednode/showdown/games"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

const qrSize = 320

// joinURL is the link players scan to land on the home page with the room
// code filled in.
func joinURL(cfg *Config, r *http.Request, code string) string {
	scheme := cfg.scheme()
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	u := url.URL{
		Scheme:   scheme,
		Host:     r.Host,
		Path:     cfg.prefix + "/",
		RawQuery: url.Values{"room": {code}}.Encode(),
	}
	return u.String()
}

// serveRoomQR renders a PNG QR code of a live room's join link.
func serveRoomQR(cfg *Config, reg *games.Registry) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		room, err := reg.Room(ps.ByName("code"))
		if err != nil {
			securityHeaders(cfg, w)
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		png, err := qrcode.Encode(joinURL(cfg, r, room.Code()), qrcode.Medium, qrSize)
		if err != nil {
			cfg.log.Error().Err(err).Str("room", room.Code()).Msg("qr generation failed")
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Length", strconv.Itoa(len(png)))
		w.Header().Set("Cache-Control", "no-store")
		securityHeaders(cfg, w)

		_, _ = w.Write(png)
	}
}
