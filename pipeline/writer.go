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
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/sentipipe/core"
	"github.com/poiesic/sentipipe/storage"
)

// sinkHeader is the fixed column order of the sink.
var sinkHeader = []string{"id", "created_at", "text", "score"}

// Writer is the single serialized consumer of the results queue. It opens
// the sink once at start, writes the header exactly once, appends one row
// per scored post in arrival order, and closes the sink exactly once at
// termination. A write failure is fatal: no further rows are written, but
// the queue keeps draining so producers never block on a dead sink.
type Writer struct {
	in        *Queue[*core.ScoredPost]
	path      string
	delimiter rune
	archive   storage.ScoreRepository
	pool      *ants.Pool
	logger    *slog.Logger

	started atomic.Bool
	done    chan struct{}
	err     error // written only by run, read after done closes
	rows    atomic.Int64

	ctx context.Context
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithDelimiter sets the column delimiter. The default is a tab.
func WithDelimiter(delimiter rune) WriterOption {
	return func(w *Writer) {
		w.delimiter = delimiter
	}
}

// WithArchive mirrors every written row into the score archive.
func WithArchive(archive storage.ScoreRepository) WriterOption {
	return func(w *Writer) {
		w.archive = archive
	}
}

// WithWriterPool runs the writer on the given ants pool instead of a
// dedicated goroutine.
func WithWriterPool(pool *ants.Pool) WriterOption {
	return func(w *Writer) {
		w.pool = pool
	}
}

// NewWriter creates a result writer appending to the file at path.
func NewWriter(in *Queue[*core.ScoredPost], path string, opts ...WriterOption) *Writer {
	w := &Writer{
		in:        in,
		path:      path,
		delimiter: '\t',
		done:      make(chan struct{}),
		logger:    slog.Default().With("component", "writer"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start begins execution. It must be called at most once.
func (w *Writer) Start(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	w.ctx = ctx

	if w.pool != nil {
		if err := w.pool.Submit(w.run); err != nil {
			close(w.done)
			return fmt.Errorf("submitting writer: %w", err)
		}
		return nil
	}

	go w.run()
	return nil
}

// Stop pushes one end-of-stream marker onto the results queue; with block
// it waits for the writer to terminate. The orchestrator only calls this
// after every worker has terminated, so no scored post can arrive after
// the marker.
func (w *Writer) Stop(block bool) {
	w.in.PutEOS()
	if block {
		w.Join()
	}
}

// Join blocks until the writer has exited.
func (w *Writer) Join() {
	<-w.done
}

// Err returns the error the writer terminated with, if any.
// Only valid after Join.
func (w *Writer) Err() error {
	return w.err
}

// Rows returns the number of data rows written so far.
func (w *Writer) Rows() int {
	return int(w.rows.Load())
}

func (w *Writer) run() {
	defer close(w.done)

	file, err := os.Create(w.path)
	if err != nil {
		w.err = fmt.Errorf("opening sink: %w", err)
		w.logger.Error("failed to open sink", "path", w.path, "err", err)
		w.drain()
		return
	}

	out := csv.NewWriter(file)
	out.Comma = w.delimiter

	w.logger.Info("writer running", "path", w.path)

	werr := w.writeAll(out)
	out.Flush()
	if werr == nil {
		werr = out.Error()
	}

	if cerr := file.Close(); cerr != nil && werr == nil {
		werr = fmt.Errorf("closing sink: %w", cerr)
	}

	if werr != nil {
		w.err = werr
		w.logger.Error("writer failed", "err", werr)
		w.drain()
		return
	}

	w.logger.Info("writer finished", "rows", w.rows.Load())
}

// writeAll writes the header and then one row per dequeued result until the
// end-of-stream marker arrives or a write fails.
func (w *Writer) writeAll(out *csv.Writer) error {
	if err := out.Write(sinkHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	out.Flush()
	if err := out.Error(); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for {
		scored, ok := w.in.Get()
		if !ok {
			return nil
		}

		if err := out.Write(formatRow(scored)); err != nil {
			return fmt.Errorf("writing row for post %d: %w", scored.Post.Id, err)
		}
		out.Flush()
		if err := out.Error(); err != nil {
			return fmt.Errorf("writing row for post %d: %w", scored.Post.Id, err)
		}

		if w.archive != nil {
			if err := w.archive.AddScores(w.ctx, scored); err != nil {
				return fmt.Errorf("archiving post %d: %w", scored.Post.Id, err)
			}
		}

		w.rows.Add(1)
		rowsWritten.Inc()
		w.logger.Debug("wrote row", "row", w.rows.Load(), "id", scored.Post.Id)
	}
}

// drain discards queued results after a fatal failure until the marker
// arrives, so that workers blocked on a full results queue can still
// terminate and the orchestrator's shutdown sequence completes.
func (w *Writer) drain() {
	discarded := 0
	for {
		_, ok := w.in.Get()
		if !ok {
			if discarded > 0 {
				w.logger.Warn("discarded results after failure", "count", discarded)
			}
			return
		}
		discarded++
	}
}

func formatRow(scored *core.ScoredPost) []string {
	createdAt := ""
	if !scored.Post.CreatedAt.IsZero() {
		createdAt = scored.Post.CreatedAt.Format(time.RFC3339)
	}
	return []string{
		strconv.FormatUint(uint64(scored.Post.Id), 10),
		createdAt,
		scored.Post.Text,
		strconv.FormatFloat(scored.Score, 'g', -1, 64),
	}
}
