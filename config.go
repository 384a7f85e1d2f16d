package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Seednode/showdown/games"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	bind           string
	commandBurst   int
	commandRate    float64
	guessingTime   time.Duration
	otelEndpoint   string
	port           int
	prefix         string
	profile        bool
	resultsTime    time.Duration
	roomTimeout    time.Duration
	storyMinLength int
	tlsCert        string
	tlsKey         string
	verbose        bool
	version        bool
	votingTime     time.Duration
	writingTime    time.Duration

	log zerolog.Logger
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}

	for name, d := range map[string]time.Duration{
		"writing-time":  c.writingTime,
		"voting-time":   c.votingTime,
		"guessing-time": c.guessingTime,
		"results-time":  c.resultsTime,
	} {
		if d <= 0 {
			return fmt.Errorf("invalid --%s (must be positive): %s", name, d)
		}
	}
	if c.roomTimeout < 0 {
		return fmt.Errorf("invalid --room-timeout (must not be negative): %s", c.roomTimeout)
	}

	if c.storyMinLength < 1 || c.storyMinLength > 1000 {
		return fmt.Errorf("invalid --story-min-length (must be between 1-1000 inclusive): %d", c.storyMinLength)
	}
	if c.commandRate <= 0 || c.commandBurst < 1 {
		return errors.New("--command-rate and --command-burst must both be positive")
	}

	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

// rules converts the timing flags into per-room rules.
func (c *Config) rules() games.Rules {
	return games.Rules{
		WritingTime:    c.writingTime,
		VotingTime:     c.votingTime,
		GuessingTime:   c.guessingTime,
		ResultsTime:    c.resultsTime,
		StoryMinLength: c.storyMinLength,
	}
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("SHOWDOWN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "showdown",
		Short:         "Room-based party games (Joke Factory and Truth Tales), served over websockets.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return ServePage(cmd.Context(), cfg, args)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	defaults := games.DefaultRules()

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: SHOWDOWN_BIND)")
	fs.IntVar(&cfg.commandBurst, "command-burst", 10, "commands a connection may send in a burst (env: SHOWDOWN_COMMAND_BURST)")
	fs.Float64Var(&cfg.commandRate, "command-rate", 5, "sustained commands per second allowed per connection (env: SHOWDOWN_COMMAND_RATE)")
	fs.DurationVar(&cfg.guessingTime, "guessing-time", defaults.GuessingTime, "length of the Truth Tales guessing phase (env: SHOWDOWN_GUESSING_TIME)")
	fs.StringVar(&cfg.otelEndpoint, "otel-endpoint", "", "OTLP/HTTP endpoint for traces, disabled when empty (env: SHOWDOWN_OTEL_ENDPOINT)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: SHOWDOWN_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: SHOWDOWN_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: SHOWDOWN_PROFILE)")
	fs.DurationVar(&cfg.resultsTime, "results-time", defaults.ResultsTime, "pause on the results screen between rounds (env: SHOWDOWN_RESULTS_TIME)")
	fs.DurationVar(&cfg.roomTimeout, "room-timeout", 2*time.Hour, "time before idle rooms are closed, 0 to disable (env: SHOWDOWN_ROOM_TIMEOUT)")
	fs.IntVar(&cfg.storyMinLength, "story-min-length", defaults.StoryMinLength, "minimum length of a Truth Tales story (env: SHOWDOWN_STORY_MIN_LENGTH)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: SHOWDOWN_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: SHOWDOWN_TLS_KEY)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: SHOWDOWN_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: SHOWDOWN_VERSION)")
	fs.DurationVar(&cfg.votingTime, "voting-time", defaults.VotingTime, "length of the Joke Factory voting phase (env: SHOWDOWN_VOTING_TIME)")
	fs.DurationVar(&cfg.writingTime, "writing-time", defaults.WritingTime, "length of the writing phase (env: SHOWDOWN_WRITING_TIME)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("showdown v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
