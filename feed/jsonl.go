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
	"bufio"
	"bytes"
	"context"
	"io"
	"log/slog"

	"github.com/poiesic/sentipipe/core"
)

// JSONLSource reads one raw status record per line from a stream, typically
// a capture file or a live feed piped to stdin. Lines that fail to decode or
// carry no text are logged and skipped rather than stopping the feed.
type JSONLSource struct {
	scanner *bufio.Scanner
	lang    string
	line    int
	logger  *slog.Logger
}

// JSONLOption configures a JSONLSource.
type JSONLOption func(*JSONLSource)

// WithLang restricts the feed to statuses tagged with the given ISO 639-1
// language code. Empty means no restriction.
func WithLang(lang string) JSONLOption {
	return func(s *JSONLSource) {
		s.lang = lang
	}
}

// NewJSONLSource creates a source reading newline-delimited status JSON
// from r. The reader's lifetime is owned by the caller.
func NewJSONLSource(r io.Reader, opts ...JSONLOption) *JSONLSource {
	scanner := bufio.NewScanner(r)
	// Status records with nested repost payloads can exceed the default
	// token size.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	source := &JSONLSource{
		scanner: scanner,
		logger:  slog.Default().With("component", "jsonl-source"),
	}
	for _, opt := range opts {
		opt(source)
	}
	return source
}

// Next returns the next decodable post, io.EOF at end of stream, or the
// underlying reader's error.
func (s *JSONLSource) Next(ctx context.Context) (*core.Post, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return nil, err
			}
			return nil, io.EOF
		}
		s.line++

		data := bytes.TrimSpace(s.scanner.Bytes())
		if len(data) == 0 {
			continue
		}

		status, err := DecodeStatus(data)
		if err != nil {
			s.logger.Warn("skipping undecodable record", "line", s.line, "err", err)
			continue
		}

		if s.lang != "" && status.Lang != "" && status.Lang != s.lang {
			continue
		}

		post, err := PostFromStatus(status)
		if err != nil {
			s.logger.Warn("skipping record without text", "line", s.line, "err", err)
			continue
		}

		s.logger.Debug("read post", "line", s.line, "id", post.Id)
		return post, nil
	}
}
