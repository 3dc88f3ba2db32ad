// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/sentipipe/config"
	"github.com/poiesic/sentipipe/core"
	"github.com/poiesic/sentipipe/feed"
	"github.com/poiesic/sentipipe/pipeline"
	"github.com/poiesic/sentipipe/scoring"
	"github.com/poiesic/sentipipe/scoring/lexicon"
	"github.com/poiesic/sentipipe/scoring/openai"
	"github.com/poiesic/sentipipe/storage"
	"github.com/poiesic/sentipipe/storage/badger"
)

func main() {
	app := &cli.App{
		Name:  "sentipipe",
		Usage: "Concurrent sentiment scoring pipeline for social posts",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "score",
				Usage:     "Score posts from a JSON-lines feed and write a delimited result file",
				ArgsUsage: "[term ...]",
				Action:    scoreCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "config",
						Usage: "Path to a YAML configuration file",
					},
					&cli.StringFlag{
						Name:    "input",
						Aliases: []string{"i"},
						Usage:   "JSON-lines post file (default: stdin)",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Result file path",
					},
					&cli.StringFlag{
						Name:  "lang",
						Usage: "Keep only posts declaring this language",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Stop after this many posts (0 = unlimited)",
					},
					&cli.IntFlag{
						Name:    "workers",
						Aliases: []string{"w"},
						Usage:   "Number of concurrent scoring workers",
						Value:   4,
					},
					&cli.IntFlag{
						Name:    "batch",
						Aliases: []string{"b"},
						Usage:   "Posts per batched scoring call",
						Value:   1,
					},
					&cli.IntFlag{
						Name:  "queue-capacity",
						Usage: "Capacity of the post and results queues",
						Value: 64,
					},
					&cli.StringFlag{
						Name:  "backend",
						Usage: "Scorer backend: lexicon or openai",
						Value: scoring.BackendLexicon,
					},
					&cli.StringFlag{
						Name:    "model",
						Aliases: []string{"m"},
						Usage:   "Lexicon model weights file (JSON)",
					},
					&cli.StringFlag{
						Name:  "vocabulary",
						Usage: "Token vocabulary file (JSON)",
					},
					&cli.StringFlag{
						Name:  "openai-host",
						Usage: "OpenAI-compatible API host for the openai backend",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "openai-model",
						Usage: "Model identifier for the openai backend",
						Value: "qwen2.5:3b",
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum attempts for LLM scoring calls",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
					&cli.StringFlag{
						Name:  "archive",
						Usage: "BadgerDB directory for score archiving and deduplication",
					},
					&cli.StringFlag{
						Name:  "metrics-addr",
						Usage: "Expose Prometheus metrics on this address (e.g. :9090)",
					},
				},
			},
			{
				Name:   "export",
				Usage:  "Export the score archive to a delimited file",
				Action: exportCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "archive",
						Aliases:  []string{"a"},
						Usage:    "BadgerDB archive directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Export file path (default: stdout)",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// buildConfig merges the optional config file with command-line flags.
// Explicitly set flags win over the file.
func buildConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	setString := func(flag string, dst *string) {
		if c.IsSet(flag) || *dst == "" {
			*dst = c.String(flag)
		}
	}
	setInt := func(flag string, dst *int) {
		if c.IsSet(flag) {
			*dst = c.Int(flag)
		}
	}

	setString("input", &cfg.Input)
	setString("output", &cfg.Output)
	setString("lang", &cfg.Lang)
	setInt("limit", &cfg.Limit)
	setInt("workers", &cfg.Workers)
	setInt("batch", &cfg.BatchSize)
	setInt("queue-capacity", &cfg.QueueCapacity)
	setString("archive", &cfg.Archive)
	setString("metrics-addr", &cfg.MetricsAddr)

	setString("backend", &cfg.Scoring.Backend)
	setString("model", &cfg.Scoring.ModelFile)
	setString("vocabulary", &cfg.Scoring.VocabularyFile)
	setString("openai-host", &cfg.Scoring.Host)
	setString("openai-model", &cfg.Scoring.Model)
	setInt("max-retries", &cfg.Scoring.MaxRetries)
	if c.IsSet("retry-delay") {
		cfg.Scoring.RetryBaseDelay = c.Duration("retry-delay").String()
	}

	if terms := c.Args().Slice(); len(terms) > 0 {
		cfg.Terms = terms
	}

	return cfg, cfg.Validate()
}

func scorerFactory(cfg *scoring.Config) (scoring.Factory, error) {
	switch cfg.Backend {
	case scoring.BackendLexicon:
		return lexicon.Factory(cfg), nil
	case scoring.BackendOpenAI:
		return openai.Factory(cfg), nil
	default:
		return nil, fmt.Errorf("unknown scorer backend %q", cfg.Backend)
	}
}

func openSource(cfg *config.Config) (feed.Source, io.Closer, error) {
	var reader io.Reader = os.Stdin
	var closer io.Closer

	if cfg.Input != "" {
		f, err := os.Open(cfg.Input)
		if err != nil {
			return nil, nil, fmt.Errorf("opening input: %w", err)
		}
		reader = f
		closer = f
	}

	var jsonlOpts []feed.JSONLOption
	if cfg.Lang != "" {
		jsonlOpts = append(jsonlOpts, feed.WithLang(cfg.Lang))
	}

	var source feed.Source = feed.NewJSONLSource(reader, jsonlOpts...)
	if len(cfg.Terms) > 0 {
		source = feed.Filter(source, feed.MatchesAny(cfg.Terms))
	}
	source = feed.Limit(source, cfg.Limit)

	return source, closer, nil
}

func scoreCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := buildConfig(c)
	if err != nil {
		return err
	}

	scoringCfg := cfg.ScoringConfig()
	factory, err := scorerFactory(scoringCfg)
	if err != nil {
		return err
	}

	source, closer, err := openSource(cfg)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	opts := []pipeline.PipelineOption{
		pipeline.WithWorkers(cfg.Workers),
		pipeline.WithBatchSize(cfg.BatchSize),
		pipeline.WithQueueCapacity(cfg.QueueCapacity),
	}

	var repo storage.ScoreRepository
	if cfg.Archive != "" {
		backend, err := badger.OpenBackend(cfg.Archive, false)
		if err != nil {
			return fmt.Errorf("opening archive: %w", err)
		}
		defer backend.Close()

		repo, err = badger.NewScoreRepository(backend)
		if err != nil {
			return fmt.Errorf("creating score repository: %w", err)
		}
		defer repo.Close()

		opts = append(opts, pipeline.WithPipelineArchive(repo))
	}

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", pipeline.MetricsHandler())
		go func() {
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				slog.Error("metrics server failed", "addr", cfg.MetricsAddr, "err", err)
			}
		}()
	}

	p, err := pipeline.NewPipeline(factory, cfg.Output, opts...)
	if err != nil {
		return err
	}
	defer p.Release()

	if err := p.Run(ctx, source); err != nil {
		return fmt.Errorf("scoring run failed: %w", err)
	}
	return nil
}

func exportCommand(c *cli.Context) error {
	ctx := context.Background()

	backend, err := badger.OpenBackend(c.String("archive"), false)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewScoreRepository(backend)
	if err != nil {
		return fmt.Errorf("creating score repository: %w", err)
	}
	defer repo.Close()

	var sink io.Writer = os.Stdout
	if path := c.String("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating export file: %w", err)
		}
		defer f.Close()
		sink = f
	}

	out := csv.NewWriter(sink)
	out.Comma = '\t'
	if err := out.Write([]string{"id", "created_at", "text", "score"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	exported := 0
	err = repo.ForEachScore(ctx, func(sp *core.ScoredPost) error {
		createdAt := ""
		if !sp.Post.CreatedAt.IsZero() {
			createdAt = sp.Post.CreatedAt.Format(time.RFC3339)
		}
		exported++
		return out.Write([]string{
			strconv.FormatUint(uint64(sp.Post.Id), 10),
			createdAt,
			sp.Post.Text,
			strconv.FormatFloat(sp.Score, 'g', -1, 64),
		})
	})
	if err != nil {
		return fmt.Errorf("exporting scores: %w", err)
	}

	out.Flush()
	if err := out.Error(); err != nil {
		return fmt.Errorf("flushing export: %w", err)
	}

	slog.Info("export complete", "scores", exported)
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
