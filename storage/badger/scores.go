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


package badger

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/sentipipe/core"
	"github.com/poiesic/sentipipe/storage"
)

// ScoreRepository implements storage.ScoreRepository on BadgerDB.
type ScoreRepository struct {
	backend *Backend
	logger  *slog.Logger
}

// NewScoreRepository creates a score repository on the given backend.
func NewScoreRepository(backend *Backend) (storage.ScoreRepository, error) {
	if backend == nil {
		return nil, errors.New("backend required")
	}
	return &ScoreRepository{
		backend: backend,
		logger:  slog.Default().With("component", "score-repository"),
	}, nil
}

// AddScores persists scored posts, overwriting existing entries.
func (r *ScoreRepository) AddScores(ctx context.Context, scores ...*core.ScoredPost) error {
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	if len(scores) == 0 {
		return nil
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, score := range scores {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := tx.Set(makeScoreKey(score.Post.Id), storage.MarshalScoredPost(score)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetScore retrieves an archived score by post ID.
func (r *ScoreRepository) GetScore(ctx context.Context, id core.ID) (*core.ScoredPost, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var score *core.ScoredPost
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeScoreKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			score, err = storage.UnmarshalScoredPost(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return score, nil
}

// HasScore reports whether a post ID is already archived.
func (r *ScoreRepository) HasScore(ctx context.Context, id core.ID) (bool, error) {
	if r.backend.IsClosed() {
		return false, storage.ErrStorageClosed
	}

	found := false
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		_, err := tx.Get(makeScoreKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	}, false)
	return found, err
}

// ForEachScore iterates archived scores in ascending post-ID order.
func (r *ScoreRepository) ForEachScore(ctx context.Context, fn func(*core.ScoredPost) error) error {
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(scorePrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var score *core.ScoredPost
			err := iter.Item().Value(func(val []byte) error {
				var err error
				score, err = storage.UnmarshalScoredPost(val)
				return err
			})
			if err != nil {
				return err
			}

			if err := fn(score); err != nil {
				return err
			}
		}
		return nil
	}, false)
}

// Close closes the repository's backend.
func (r *ScoreRepository) Close() error {
	return r.backend.Close()
}
