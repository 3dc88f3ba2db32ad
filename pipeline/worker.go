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
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/sentipipe/core"
	"github.com/poiesic/sentipipe/scoring"
)

// WorkerState is a scoring worker's lifecycle state.
type WorkerState int32

const (
	// WorkerCreated is the initial state, before Start.
	WorkerCreated WorkerState = iota
	// WorkerRunning means the worker has loaded its scorer and is consuming.
	WorkerRunning
	// WorkerDraining means the worker observed end-of-stream and is flushing
	// any partially accumulated batch.
	WorkerDraining
	// WorkerTerminated means the worker's execution unit has exited and its
	// scorer has been released.
	WorkerTerminated
)

func (s WorkerState) String() string {
	switch s {
	case WorkerCreated:
		return "created"
	case WorkerRunning:
		return "running"
	case WorkerDraining:
		return "draining"
	case WorkerTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Worker pulls posts from the work queue, scores them singly or in batches,
// and forwards scored posts to the results queue. Each worker loads its own
// scorer through the factory on startup and releases it exactly once on
// every exit path.
type Worker struct {
	in        *Queue[*core.Post]
	out       *Queue[*core.ScoredPost]
	factory   scoring.Factory
	batchSize int
	pool      *ants.Pool
	name      string
	logger    *slog.Logger

	state   atomic.Int32
	started atomic.Bool
	done    chan struct{}
	err     error // written only by run, read after done closes

	// batch is owned solely by the worker goroutine.
	batch []*core.Post

	ctx    context.Context
	scorer scoring.Scorer
}

// WorkerOption configures a Worker.
type WorkerOption func(*Worker)

// WithWorkerBatchSize sets how many posts are scored per batched call.
// A size of 1 (the default) scores posts individually.
func WithWorkerBatchSize(size int) WorkerOption {
	return func(w *Worker) {
		if size < 1 {
			size = 1
		}
		w.batchSize = size
	}
}

// WithWorkerPool runs the worker on the given ants pool instead of a
// dedicated goroutine.
func WithWorkerPool(pool *ants.Pool) WorkerOption {
	return func(w *Worker) {
		w.pool = pool
	}
}

// WithWorkerName sets the name the worker logs under.
func WithWorkerName(name string) WorkerOption {
	return func(w *Worker) {
		w.name = name
	}
}

// NewWorker creates a scoring worker bound to the given queues.
func NewWorker(in *Queue[*core.Post], out *Queue[*core.ScoredPost], factory scoring.Factory, opts ...WorkerOption) *Worker {
	w := &Worker{
		in:        in,
		out:       out,
		factory:   factory,
		batchSize: 1,
		name:      "scorer",
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = slog.Default().With("component", w.name)
	return w
}

// Start begins execution as an independent unit of concurrency.
// It must be called at most once; further calls return ErrAlreadyStarted.
// The context bounds the worker's scoring calls only — shutdown is driven
// by end-of-stream markers, not cancellation.
func (w *Worker) Start(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	w.ctx = ctx

	if w.pool != nil {
		if err := w.pool.Submit(w.run); err != nil {
			close(w.done)
			w.state.Store(int32(WorkerTerminated))
			return fmt.Errorf("submitting %s: %w", w.name, err)
		}
		return nil
	}

	go w.run()
	return nil
}

// Stop pushes exactly one end-of-stream marker onto the worker's input
// queue. If block is true it waits for the worker to fully terminate.
// Stopping an already drained worker neither hangs nor panics.
func (w *Worker) Stop(block bool) {
	w.in.PutEOS()
	if block {
		w.Join()
	}
}

// Join blocks until the worker's execution unit has exited.
func (w *Worker) Join() {
	<-w.done
}

// Err returns the error the worker terminated with, if any.
// Only valid after Join.
func (w *Worker) Err() error {
	return w.err
}

// State returns the worker's current lifecycle state.
func (w *Worker) State() WorkerState {
	return WorkerState(w.state.Load())
}

func (w *Worker) run() {
	defer close(w.done)
	defer w.state.Store(int32(WorkerTerminated))

	scorer, err := w.factory()
	if err != nil {
		w.err = fmt.Errorf("loading scorer: %w", err)
		w.logger.Error("scorer load failed", "err", err)
		workerFailures.Inc()
		return
	}
	defer func() {
		if cerr := scorer.Close(); cerr != nil {
			w.logger.Warn("closing scorer", "err", cerr)
		}
	}()

	w.scorer = scorer
	w.state.Store(int32(WorkerRunning))
	w.logger.Info("worker running", "batch_size", w.batchSize)

	for {
		post, ok := w.in.Get()
		if !ok {
			break
		}
		if err := w.consume(post); err != nil {
			w.err = err
			w.logger.Error("worker failed", "err", err)
			workerFailures.Inc()
			return
		}
	}

	w.state.Store(int32(WorkerDraining))
	if len(w.batch) > 0 {
		w.logger.Info("flushing partial batch", "count", len(w.batch))
		if err := w.flush(); err != nil {
			w.err = err
			w.logger.Error("drain flush failed", "err", err)
			workerFailures.Inc()
			return
		}
	}
	w.logger.Info("worker drained")
}

// consume handles one post. With batching enabled, a full accumulator is
// flushed before the arriving post is appended, so the arriving post always
// starts the next batch.
func (w *Worker) consume(post *core.Post) error {
	if w.batchSize > 1 {
		if len(w.batch) == w.batchSize {
			if err := w.flush(); err != nil {
				return err
			}
		}
		w.batch = append(w.batch, post)
		return nil
	}

	score, err := w.scorer.ScoreText(w.ctx, post.Text)
	if err != nil {
		return fmt.Errorf("scoring post %d: %w", post.Id, err)
	}

	w.out.Put(&core.ScoredPost{Post: post, Score: score})
	postsScored.Inc()
	scoreDistribution.Observe(score)
	w.logger.Debug("scored post", "id", post.Id)
	return nil
}

// flush scores the accumulated batch with one batched call and forwards the
// scored posts in batch order.
func (w *Worker) flush() error {
	batch := w.batch
	texts := make([]string, len(batch))
	for i, post := range batch {
		texts[i] = post.Text
	}

	scores, err := w.scorer.ScoreTexts(w.ctx, texts)
	if err != nil {
		return fmt.Errorf("scoring batch of %d: %w", len(batch), err)
	}
	if len(scores) != len(batch) {
		return fmt.Errorf("%w: %d posts, %d scores", scoring.ErrScoreCountMismatch, len(batch), len(scores))
	}

	for i, post := range batch {
		w.out.Put(&core.ScoredPost{Post: post, Score: scores[i]})
		scoreDistribution.Observe(scores[i])
	}

	batchesScored.Inc()
	batchSizeHist.Observe(float64(len(batch)))
	postsScored.Add(float64(len(batch)))
	w.logger.Debug("scored batch", "count", len(batch))

	w.batch = w.batch[:0]
	return nil
}
