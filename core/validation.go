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


package core

import (
	"fmt"
	"time"
)

// ValidatePost validates a Post according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - CreatedAt must not be in the future
//
// NOT validated:
//   - Id (0 is valid; content-derived IDs fill it in later if needed)
func ValidatePost(post *Post) error {
	if post == nil {
		return fmt.Errorf("%w: post is nil", ErrInvalidPost)
	}

	if post.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPost, ErrEmptyText)
	}

	if !IsValidTimestamp(post.CreatedAt) {
		return fmt.Errorf("%w: %w", ErrInvalidPost, ErrInvalidTimestamp)
	}

	return nil
}

// ValidateScore validates that a sentiment score is within [0,1].
func ValidateScore(score float64) error {
	if score < 0 || score > 1 {
		return fmt.Errorf("%w: value %g", ErrInvalidScore, score)
	}
	return nil
}

// IsValidTimestamp checks if a timestamp is valid (not in the future).
func IsValidTimestamp(ts time.Time) bool {
	return !ts.After(time.Now())
}
