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


package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/sentipipe/core"
	"github.com/poiesic/sentipipe/feed"
	"github.com/poiesic/sentipipe/scoring"
	"github.com/poiesic/sentipipe/storage"
)

// DefaultWorkers is the number of scoring workers used when none is
// configured.
const DefaultWorkers = 4

// Pipeline wires a post source through a pool of scoring workers into a
// single serialized writer. A Pipeline runs at most once.
type Pipeline struct {
	factory    scoring.Factory
	outputPath string

	workers   int
	batchSize int
	queueCap  int
	delimiter rune
	archive   storage.ScoreRepository

	pool   *ants.Pool
	runID  string
	logger *slog.Logger
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithWorkers sets the number of scoring workers.
func WithWorkers(n int) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithBatchSize sets the scoring batch size for every worker.
func WithBatchSize(n int) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.batchSize = n
		}
	}
}

// WithQueueCapacity sets the capacity of the post and results queues.
func WithQueueCapacity(n int) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.queueCap = n
		}
	}
}

// WithPipelineArchive mirrors written scores into the archive and skips
// posts whose score is already archived.
func WithPipelineArchive(archive storage.ScoreRepository) PipelineOption {
	return func(p *Pipeline) {
		p.archive = archive
	}
}

// WithPipelineDelimiter sets the sink column delimiter.
func WithPipelineDelimiter(delimiter rune) PipelineOption {
	return func(p *Pipeline) {
		p.delimiter = delimiter
	}
}

// WithPipelineLogger sets the base logger.
func WithPipelineLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// NewPipeline creates a pipeline scoring posts with scorers produced by
// factory and appending results to the file at outputPath. Each worker
// obtains its own scorer from the factory, so the factory must be safe
// for concurrent use.
func NewPipeline(factory scoring.Factory, outputPath string, opts ...PipelineOption) (*Pipeline, error) {
	if factory == nil {
		return nil, ErrFactoryRequired
	}
	if outputPath == "" {
		return nil, ErrOutputRequired
	}

	p := &Pipeline{
		factory:    factory,
		outputPath: outputPath,
		workers:    DefaultWorkers,
		batchSize:  1,
		queueCap:   DefaultQueueCapacity,
		delimiter:  '\t',
		runID:      uuid.NewString(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With("component", "pipeline", "run_id", p.runID)

	// One slot per worker plus the writer.
	pool, err := ants.NewPool(p.workers + 1)
	if err != nil {
		return nil, fmt.Errorf("creating worker pool: %w", err)
	}
	p.pool = pool

	return p, nil
}

// RunID returns the unique identifier of this pipeline run.
func (p *Pipeline) RunID() string {
	return p.runID
}

// Release frees the pipeline's worker pool. Call after Run returns.
func (p *Pipeline) Release() {
	p.pool.Release()
}

// Run consumes source to exhaustion, scores every post, and writes the
// results. It returns once the writer has terminated. The error joins
// the feed error, every worker error, and the writer error.
func (p *Pipeline) Run(ctx context.Context, source feed.Source) error {
	posts := NewQueue[*core.Post](p.queueCap)
	results := NewQueue[*core.ScoredPost](p.queueCap)

	workers := make([]*Worker, p.workers)
	for i := range workers {
		workers[i] = NewWorker(posts, results, p.factory,
			WithWorkerBatchSize(p.batchSize),
			WithWorkerPool(p.pool),
			WithWorkerName(fmt.Sprintf("worker-%d", i)))
	}

	writerOpts := []WriterOption{
		WithDelimiter(p.delimiter),
		WithWriterPool(p.pool),
	}
	if p.archive != nil {
		writerOpts = append(writerOpts, WithArchive(p.archive))
	}
	writer := NewWriter(results, p.outputPath, writerOpts...)

	started := make([]*Worker, 0, len(workers))
	for _, w := range workers {
		if err := w.Start(ctx); err != nil {
			// Unwind the workers already running before reporting.
			for _, s := range started {
				s.Stop(false)
			}
			for _, s := range started {
				s.Join()
			}
			return fmt.Errorf("starting worker: %w", err)
		}
		started = append(started, w)
	}
	if err := writer.Start(ctx); err != nil {
		for _, w := range workers {
			w.Stop(false)
		}
		for _, w := range workers {
			w.Join()
		}
		return fmt.Errorf("starting writer: %w", err)
	}

	p.logger.Info("pipeline running",
		"workers", p.workers, "batch_size", p.batchSize, "queue_capacity", p.queueCap)

	// If every worker dies before the feed ends, the posts queue fills up
	// and the feed loop would block forever. The joiner closes workersDone
	// once all workers have exited so the feed can bail out.
	workersDone := make(chan struct{})
	go func() {
		defer close(workersDone)
		for _, w := range workers {
			w.Join()
		}
	}()

	feedErr := p.feed(ctx, source, posts, workersDone)

	// Strict shutdown ordering: one end-of-stream marker per worker, then
	// join every worker, and only then stop the writer. The writer's
	// marker must be the last value on the results queue.
	for range workers {
		if !posts.PutEOSAbort(workersDone) {
			break
		}
	}
	<-workersDone
	writer.Stop(true)

	errs := make([]error, 0, len(workers)+2)
	if feedErr != nil {
		errs = append(errs, fmt.Errorf("feeding posts: %w", feedErr))
	}
	for i, w := range workers {
		if err := w.Err(); err != nil {
			errs = append(errs, fmt.Errorf("worker %d: %w", i, err))
		}
	}
	if err := writer.Err(); err != nil {
		errs = append(errs, fmt.Errorf("writing results: %w", err))
	}

	p.logger.Info("pipeline finished", "rows", writer.Rows(), "errors", len(errs))
	return errors.Join(errs...)
}

// feed pumps source into the posts queue until the source is exhausted,
// the context is cancelled, or every worker has exited.
func (p *Pipeline) feed(ctx context.Context, source feed.Source, posts *Queue[*core.Post], workersDone <-chan struct{}) error {
	consumed := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		post, err := source.Next(ctx)
		if errors.Is(err, io.EOF) {
			p.logger.Info("source exhausted", "posts", consumed)
			return nil
		}
		if err != nil {
			return err
		}

		if p.archive != nil {
			seen, herr := p.archive.HasScore(ctx, post.Id)
			if herr != nil {
				return fmt.Errorf("checking archive for post %d: %w", post.Id, herr)
			}
			if seen {
				postsSkipped.Inc()
				p.logger.Debug("skipping archived post", "id", post.Id)
				continue
			}
		}

		if !posts.PutAbort(post, workersDone) {
			return ErrWorkersExited
		}
		consumed++
		postsConsumed.Inc()
	}
}
