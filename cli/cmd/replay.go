package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/cue/cli/config"
	"github.com/pithecene-io/cue/cli/reader"
	"github.com/pithecene-io/cue/cli/render"
	"github.com/pithecene-io/cue/genai"
	"github.com/pithecene-io/cue/journal"
	"github.com/pithecene-io/cue/log"
	"github.com/pithecene-io/cue/media"
	"github.com/pithecene-io/cue/metrics"
	"github.com/pithecene-io/cue/persist"
	persistredis "github.com/pithecene-io/cue/persist/redis"
	"github.com/pithecene-io/cue/persist/webhook"
	"github.com/pithecene-io/cue/session"
	"github.com/pithecene-io/cue/transcript"
	"github.com/pithecene-io/cue/types"
	"github.com/pithecene-io/cue/video"
)

// Exit codes for replay.
const (
	exitSuccess     = 0
	exitScriptError = 1
	exitSetupError  = 2
)

// ReplayResult is the replay command's output payload.
type ReplayResult struct {
	SessionID   string `json:"session_id"`
	VideoID     string `json:"video_id"`
	Steps       int    `json:"steps"`
	Skipped     int    `json:"skipped"`
	FinalState  string `json:"final_state"`
	Version     uint64 `json:"version"`
	Messages    int    `json:"messages"`
	Errors      int    `json:"errors"`
	JournalPath string `json:"journal_path,omitempty"`
}

// ReplayCommand returns the replay command: it drives a full coordinator
// through a scripted action sequence, offline, against a simulated
// playback element, and optionally records a journal for inspection.
func ReplayCommand() *cli.Command {
	return &cli.Command{
		Name:      "replay",
		Usage:     "Replay an action script through a session coordinator",
		ArgsUsage: "<script-file> (use - for stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to cue.yaml config file",
			},
			&cli.StringFlag{
				Name:  "session-id",
				Usage: "Session ID (default: generated)",
			},
			&cli.StringFlag{
				Name:  "video-id",
				Usage: "Video ID the session is bound to",
			},
			&cli.StringFlag{
				Name:  "course-id",
				Usage: "Course ID the video belongs to",
			},
			&cli.StringFlag{
				Name:    "journal",
				Aliases: []string{"j"},
				Usage:   "Journal output path",
			},
			&cli.StringFlag{
				Name:  "generation-endpoint",
				Usage: "AI generation endpoint URL (default: built-in content)",
			},
			&cli.StringFlag{
				Name:  "persist-backend",
				Usage: "Persistence backend: webhook, redis, or memory",
			},
			&cli.StringFlag{
				Name:  "persist-url",
				Usage: "Persistence backend URL",
			},
			&cli.StringFlag{
				Name:  "transcript-url",
				Usage: "Redis URL for transcript lookups",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Log coordinator activity to stderr",
			},
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "Suppress result output",
			},
		},
		Action: replayAction,
	}
}

func replayAction(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("script file required", exitScriptError)
	}

	cfg, err := loadReplayConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), exitSetupError)
	}

	steps, err := readScript(c.Args().First())
	if err != nil {
		return cli.Exit(fmt.Sprintf("invalid script: %v", err), exitScriptError)
	}

	meta := types.SessionMeta{
		SessionID: cfg.SessionID,
		VideoID:   cfg.VideoID,
		CourseID:  cfg.CourseID,
	}
	if meta.SessionID == "" {
		meta.SessionID = types.NewID()
	}

	logger := log.Nop()
	if c.Bool("verbose") {
		logger = log.NewLogger(&meta)
	}
	collector := metrics.NewCollector(meta.SessionID, meta.VideoID)

	sessionCfg, sink, cleanup, err := buildSessionConfig(c, cfg, meta, logger, collector)
	if err != nil {
		return cli.Exit(err.Error(), exitSetupError)
	}
	defer cleanup()

	coord, err := session.New(sessionCfg)
	if err != nil {
		return cli.Exit(err.Error(), exitSetupError)
	}

	skipped := 0
	for _, step := range steps {
		action := step.Action
		if step.ResolveMessage {
			// Resolution reads the live snapshot, so the queue must be
			// drained first.
			coord.Wait()
			resolved, ok := reader.ResolveMessageID(step, coord.Snapshot())
			if !ok {
				skipped++
				continue
			}
			action = resolved
		}
		coord.Dispatch(action)
	}
	coord.Wait()
	coord.Close()
	if sink != nil {
		_ = sink.Close()
	}

	snap := coord.Snapshot()
	result := ReplayResult{
		SessionID:   snap.SessionID,
		VideoID:     snap.VideoID,
		Steps:       len(steps),
		Skipped:     skipped,
		FinalState:  string(snap.State),
		Version:     snap.Version,
		Messages:    len(snap.Messages),
		Errors:      len(snap.Errors),
		JournalPath: journalPath(c, cfg),
	}

	if !c.Bool("quiet") {
		r, rerr := render.NewRenderer(c)
		if rerr == nil {
			_ = r.Render(result)
		}
	}

	if snap.State == types.SessionError {
		return cli.Exit("", exitScriptError)
	}
	return cli.Exit("", exitSuccess)
}

// loadReplayConfig merges the config file with CLI flags; flags win.
func loadReplayConfig(c *cli.Context) (*config.Config, error) {
	cfg := &config.Config{}
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if v := c.String("session-id"); v != "" {
		cfg.SessionID = v
	}
	if v := c.String("video-id"); v != "" {
		cfg.VideoID = v
	}
	if v := c.String("course-id"); v != "" {
		cfg.CourseID = v
	}
	if v := c.String("journal"); v != "" {
		cfg.Journal = v
	}
	if v := c.String("generation-endpoint"); v != "" {
		cfg.Generation.Endpoint = v
	}
	if v := c.String("persist-backend"); v != "" {
		cfg.Persist.Backend = v
	}
	if v := c.String("persist-url"); v != "" {
		cfg.Persist.URL = v
	}
	if v := c.String("transcript-url"); v != "" {
		cfg.Transcript.Backend = "redis"
		cfg.Transcript.URL = v
	}
	return cfg, nil
}

func journalPath(c *cli.Context, cfg *config.Config) string {
	if v := c.String("journal"); v != "" {
		return v
	}
	return cfg.Journal
}

func readScript(path string) ([]reader.Step, error) {
	var in io.Reader
	if path == "-" {
		in = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		in = f
	}
	return reader.ParseScript(in)
}

// buildSessionConfig assembles the coordinator's collaborators from the
// merged config. The returned cleanup closes everything that was opened.
func buildSessionConfig(c *cli.Context, cfg *config.Config, meta types.SessionMeta, logger *log.Logger, collector *metrics.Collector) (session.Config, journal.Sink, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	player := newReplayPlayer()
	controller, err := video.NewController(
		[]video.Strategy{video.NewHandleStrategy("replay", func() video.Player { return player })},
		video.WithLogger(logger),
		video.WithCollector(collector),
	)
	if err != nil {
		cleanup()
		return session.Config{}, nil, nil, err
	}

	sessionCfg := session.Config{
		Meta:      meta,
		Video:     controller,
		Logger:    logger,
		Collector: collector,
		Retries: session.Retries{
			Mutation:     cfg.Retry.Mutation,
			VideoControl: cfg.Retry.VideoControl,
			Collaborator: cfg.Retry.Collaborator,
		},
	}

	if cfg.Generation.Endpoint != "" {
		gen, gerr := genai.New(genai.Config{
			Endpoint: cfg.Generation.Endpoint,
			Headers:  cfg.Generation.Headers,
			Timeout:  cfg.Generation.Timeout.Duration,
			Logger:   logger,
		})
		if gerr != nil {
			cleanup()
			return session.Config{}, nil, nil, gerr
		}
		sessionCfg.Generator = gen
	}

	actions, err := buildActions(cfg)
	if err != nil {
		cleanup()
		return session.Config{}, nil, nil, err
	}
	if actions != nil {
		sessionCfg.Actions = actions
		closers = append(closers, func() { _ = actions.Close() })
	}

	if cfg.Transcript.Backend == "redis" {
		provider, terr := transcript.NewRedisProvider(transcript.RedisConfig{URL: cfg.Transcript.URL})
		if terr != nil {
			cleanup()
			return session.Config{}, nil, nil, terr
		}
		sessionCfg.Transcript = provider
		closers = append(closers, func() { _ = provider.Close() })
	}

	if cfg.Media.Backend == "s3" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		store, merr := media.NewS3Store(ctx, media.S3Config{
			Bucket:       cfg.Media.Bucket,
			Prefix:       cfg.Media.Prefix,
			Region:       cfg.Media.Region,
			Endpoint:     cfg.Media.Endpoint,
			UsePathStyle: cfg.Media.S3PathStyle,
		})
		cancel()
		if merr != nil {
			cleanup()
			return session.Config{}, nil, nil, merr
		}
		sessionCfg.Media = store
		closers = append(closers, func() { _ = store.Close() })
	}

	var sink journal.Sink
	if path := journalPath(c, cfg); path != "" {
		w, jerr := journal.Create(path)
		if jerr != nil {
			cleanup()
			return session.Config{}, nil, nil, jerr
		}
		sessionCfg.Journal = w
		sink = w
	}

	return sessionCfg, sink, cleanup, nil
}

func buildActions(cfg *config.Config) (persist.Actions, error) {
	switch cfg.Persist.Backend {
	case "", "memory":
		return nil, nil
	case "webhook":
		wcfg := webhook.Config{
			BaseURL: cfg.Persist.URL,
			Timeout: cfg.Persist.Timeout.Duration,
		}
		if cfg.Persist.Retries != nil {
			wcfg.Retries = *cfg.Persist.Retries
		}
		return webhook.New(wcfg)
	case "redis":
		rcfg := persistredis.Config{
			URL:     cfg.Persist.URL,
			Timeout: cfg.Persist.Timeout.Duration,
		}
		if cfg.Persist.Retries != nil {
			rcfg.Retries = *cfg.Persist.Retries
		}
		return persistredis.New(rcfg)
	default:
		return nil, fmt.Errorf("unknown persist backend %q (must be webhook, redis, or memory)", cfg.Persist.Backend)
	}
}

// replayPlayer simulates the playback element for offline replay.
type replayPlayer struct {
	playing bool
	time    float64
}

func newReplayPlayer() *replayPlayer {
	return &replayPlayer{}
}

func (p *replayPlayer) Pause() error {
	p.playing = false
	return nil
}

func (p *replayPlayer) Play() error {
	p.playing = true
	return nil
}

func (p *replayPlayer) CurrentTime() (float64, error) {
	return p.time, nil
}

func (p *replayPlayer) SetCurrentTime(t float64) error {
	p.time = t
	return nil
}
