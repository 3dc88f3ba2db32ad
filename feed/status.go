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
	"encoding/json"
	"fmt"
	"time"

	"github.com/poiesic/sentipipe/core"
)

// createdAtLayout is the timestamp format used by the upstream feed
// ("Wed Oct 10 20:19:24 +0000 2018"). RFC3339 is accepted as a fallback for
// pre-processed corpora.
const createdAtLayout = "Mon Jan 02 15:04:05 -0700 2006"

// Status is a raw record as delivered by the upstream feed. Depending on
// API version and truncation, the text lives in different fields.
type Status struct {
	Id              int64   `json:"id"`
	CreatedAt       string  `json:"created_at"`
	Text            string  `json:"text"`
	FullText        string  `json:"full_text"`
	Lang            string  `json:"lang"`
	ExtendedTweet   *extend `json:"extended_tweet"`
	RetweetedStatus *Status `json:"retweeted_status"`
}

type extend struct {
	FullText string `json:"full_text"`
}

// textStrategies is the ordered list of known text locations in a status.
// The first strategy that yields text wins; exhausting the list is an
// unrecoverable inconsistency (ErrNoStatusText).
var textStrategies = []func(*Status) string{
	func(s *Status) string { return s.FullText },
	func(s *Status) string {
		if s.ExtendedTweet == nil {
			return ""
		}
		return s.ExtendedTweet.FullText
	},
	func(s *Status) string { return s.Text },
}

// PostFromStatus converts a raw status into a Post.
// A status carrying a reposted payload yields that payload instead. A status
// without an id gets a content-derived one.
func PostFromStatus(status *Status) (*core.Post, error) {
	if status == nil {
		return nil, ErrInvalidStatus
	}

	// Keep the reposted status if this status is a repost.
	if status.RetweetedStatus != nil {
		status = status.RetweetedStatus
	}

	var text string
	for _, strategy := range textStrategies {
		if text = strategy(status); text != "" {
			break
		}
	}
	if text == "" {
		return nil, fmt.Errorf("%w: id %d", ErrNoStatusText, status.Id)
	}

	post := &core.Post{
		Id:        core.ID(status.Id),
		CreatedAt: parseCreatedAt(status.CreatedAt),
		Text:      text,
	}
	if post.Id == 0 {
		post.Id = core.IDFromContent(text)
	}
	return post, nil
}

// DecodeStatus unmarshals one raw status record.
func DecodeStatus(data []byte) (*Status, error) {
	var status Status
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidStatus, err)
	}
	return &status, nil
}

func parseCreatedAt(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	if ts, err := time.Parse(createdAtLayout, raw); err == nil {
		return ts
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts
	}
	return time.Time{}
}
