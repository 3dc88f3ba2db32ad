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


package storage

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/sentipipe/core"
)

// scoredPostSer is the MUS serializer for archived scores. Field order:
// post id, created-at (unix micros), text, score.
type scoredPostSer struct{}

// ScoredPostMUS serializes core.ScoredPost values for the archive.
var ScoredPostMUS = scoredPostSer{}

func (scoredPostSer) Marshal(v *core.ScoredPost, bs []byte) (n int) {
	n = varint.Uint64.Marshal(uint64(v.Post.Id), bs)
	n += varint.Int64.Marshal(v.Post.CreatedAt.UnixMicro(), bs[n:])
	n += ord.String.Marshal(v.Post.Text, bs[n:])
	n += raw.Float64.Marshal(v.Score, bs[n:])
	return n
}

func (scoredPostSer) Unmarshal(bs []byte) (v *core.ScoredPost, n int, err error) {
	id, n, err := varint.Uint64.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}

	micros, n1, err := varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return nil, n, err
	}

	text, n1, err := ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return nil, n, err
	}

	score, n1, err := raw.Float64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return nil, n, err
	}

	return &core.ScoredPost{
		Post: &core.Post{
			Id:        core.ID(id),
			CreatedAt: time.UnixMicro(micros).UTC(),
			Text:      text,
		},
		Score: score,
	}, n, nil
}

func (scoredPostSer) Size(v *core.ScoredPost) (size int) {
	size = varint.Uint64.Size(uint64(v.Post.Id))
	size += varint.Int64.Size(v.Post.CreatedAt.UnixMicro())
	size += ord.String.Size(v.Post.Text)
	size += raw.Float64.Size(v.Score)
	return size
}

// MarshalScoredPost serializes a ScoredPost to bytes.
func MarshalScoredPost(score *core.ScoredPost) []byte {
	buf := make([]byte, ScoredPostMUS.Size(score))
	ScoredPostMUS.Marshal(score, buf)
	return buf
}

// UnmarshalScoredPost deserializes a ScoredPost from bytes.
func UnmarshalScoredPost(data []byte) (*core.ScoredPost, error) {
	score, _, err := ScoredPostMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return score, nil
}
