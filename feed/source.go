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


package feed

import (
	"context"
	"io"
	"strings"

	"github.com/poiesic/sentipipe/core"
)

// Source is a lazy sequence of posts. Next returns io.EOF when the sequence
// is exhausted; a Source backed by a live feed may never be exhausted.
// Sources are not safe for concurrent use and cannot be rewound.
type Source interface {
	Next(ctx context.Context) (*core.Post, error)
}

// SliceSource yields posts from an in-memory slice. Used in tests and for
// seeding small runs.
type SliceSource struct {
	posts []*core.Post
	pos   int
}

// NewSliceSource creates a source over the given posts.
func NewSliceSource(posts ...*core.Post) *SliceSource {
	return &SliceSource{posts: posts}
}

// Next returns the next post or io.EOF.
func (s *SliceSource) Next(ctx context.Context) (*core.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.pos >= len(s.posts) {
		return nil, io.EOF
	}
	post := s.posts[s.pos]
	s.pos++
	return post, nil
}

// FilterFunc reports whether a post should enter the pipeline.
type FilterFunc func(*core.Post) bool

// Filter wraps a source, yielding only posts the predicate accepts.
func Filter(source Source, keep FilterFunc) Source {
	return &filterSource{source: source, keep: keep}
}

type filterSource struct {
	source Source
	keep   FilterFunc
}

func (f *filterSource) Next(ctx context.Context) (*core.Post, error) {
	for {
		post, err := f.source.Next(ctx)
		if err != nil {
			return nil, err
		}
		if f.keep(post) {
			return post, nil
		}
	}
}

// Limit wraps a source, yielding at most n posts. A non-positive n leaves
// the source unbounded, matching an unlimited feed.
func Limit(source Source, n int) Source {
	if n <= 0 {
		return source
	}
	return &limitSource{source: source, remaining: n}
}

type limitSource struct {
	source    Source
	remaining int
}

func (l *limitSource) Next(ctx context.Context) (*core.Post, error) {
	if l.remaining <= 0 {
		return nil, io.EOF
	}
	post, err := l.source.Next(ctx)
	if err != nil {
		return nil, err
	}
	l.remaining--
	return post, nil
}

// MatchesAny returns a FilterFunc accepting posts whose text contains any of
// the given terms, case-insensitively. With no terms every post matches.
func MatchesAny(terms []string) FilterFunc {
	if len(terms) == 0 {
		return func(*core.Post) bool { return true }
	}
	lowered := make([]string, len(terms))
	for i, term := range terms {
		lowered[i] = strings.ToLower(term)
	}
	return func(post *core.Post) bool {
		text := strings.ToLower(post.Text)
		for _, term := range lowered {
			if strings.Contains(text, term) {
				return true
			}
		}
		return false
	}
}
