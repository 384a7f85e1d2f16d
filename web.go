package main

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Seednode/showdown/games"
	"github.com/julienschmidt/httprouter"
	"golang.org/x/sync/errgroup"
)

const (
	logDate string        = `2006-01-02T15:04:05.000-07:00`
	timeout time.Duration = 10 * time.Second
)

func securityHeaders(cfg *Config, w http.ResponseWriter) {
	w.Header().Set("Cross-Origin-Embedder-Policy", "require-corp")
	w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
	w.Header().Set("Cross-Origin-Resource-Policy", "same-site")
	w.Header().Set("Permissions-Policy", "geolocation=(), midi=(), sync-xhr=(), microphone=(), camera=(), magnetometer=(), gyroscope=(), fullscreen=(), payment=()")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Security-Policy", "default-src 'self'")

	if cfg.scheme() == "https" {
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
	}
}

func realIP(r *http.Request) string {
	host, port, _ := net.SplitHostPort(r.RemoteAddr)
	if ip := r.Header.Get("CF-Connecting-IP"); ip != "" {
		if net.ParseIP(ip) != nil {
			host = ip
		}
	} else if ip := r.Header.Get("X-Real-IP"); ip != "" {
		if net.ParseIP(ip) != nil {
			host = ip
		}
	}
	if net.ParseIP(host) != nil && strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if port != "" {
		return host + ":" + port
	}
	return host
}

func serveVersion(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		securityHeaders(cfg, w)
		w.WriteHeader(http.StatusOK)

		_, _ = w.Write([]byte("showdown v" + releaseVersion + "\n"))
	}
}

// newRouter wires every HTTP route. The gateway shares reg with the status
// endpoints.
func newRouter(cfg *Config, reg *games.Registry) *httprouter.Router {
	mux := httprouter.New()

	mux.PanicHandler = func(w http.ResponseWriter, r *http.Request, i any) {
		cfg.log.Error().Interface("panic", i).Str("path", r.URL.Path).Msg("handler panicked")

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		securityHeaders(cfg, w)
		w.WriteHeader(http.StatusInternalServerError)

		_, _ = io.WriteString(w, newPage("Server Error", "An error has occurred. Please try again."))
	}

	cfg.prefix = strings.TrimSuffix(cfg.prefix, "/")

	gw := newGateway(cfg, reg)

	mux.GET(cfg.prefix+"/", withAccessLog(cfg, "Home page", serveHomePage(cfg)))

	mux.GET(cfg.prefix+"/api/games", withAccessLog(cfg, "Game list", serveGames(cfg)))

	mux.GET(cfg.prefix+"/healthz", withAccessLog(cfg, "Health check", serveHealthCheck(cfg, reg)))

	mux.GET(cfg.prefix+"/robots.txt", withAccessLog(cfg, "Robots", serveRobots(cfg)))

	mux.GET(cfg.prefix+"/room/:code/qr", withAccessLog(cfg, "QR code", serveRoomQR(cfg, reg)))

	mux.GET(cfg.prefix+"/version", withAccessLog(cfg, "Version page", serveVersion(cfg)))

	mux.GET(cfg.prefix+"/ws", gw.serveWS())

	if cfg.profile {
		registerProfileHandlers(cfg, mux)
	}

	return mux
}

func ServePage(ctx context.Context, cfg *Config, args []string) error {
	var err error

	cfg.log = newLogger(cfg, os.Stdout)

	timeZone := os.Getenv("TZ")
	if timeZone != "" {
		time.Local, err = time.LoadLocation(timeZone)
		if err != nil {
			return err
		}
	}

	cfg.log.Info().Str("version", releaseVersion).Msg("starting showdown")

	shutdownTracing, err := setupTelemetry(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			cfg.log.Warn().Err(err).Msg("flushing traces")
		}
	}()

	reg := games.NewRegistry(
		games.WithRules(cfg.rules()),
		games.WithMaxAge(cfg.roomTimeout),
		games.WithLogger(cfg.log.With().Str("component", "games").Logger()),
	)

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.bind, strconv.Itoa(cfg.port)),
		Handler:           newRouter(cfg, reg),
		IdleTimeout:       10 * time.Minute,
		ReadTimeout:       timeout,
		ReadHeaderTimeout: timeout,
		WriteTimeout:      timeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error

		cfg.log.Info().Msgf("listening on %s://%s%s/", cfg.scheme(), srv.Addr, cfg.prefix)

		if cfg.tlsKey != "" && cfg.tlsCert != "" {
			err = srv.ListenAndServeTLS(cfg.tlsCert, cfg.tlsKey)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return reg.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		err := srv.Shutdown(shutdownCtx)
		reg.Close()

		cfg.log.Info().Msg("server stopped")

		return err
	})

	return g.Wait()
}
