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


package scoring

import "errors"

var (
	// ErrScoreCountMismatch indicates a batched scoring call returned a
	// different number of scores than texts. This is an invariant violation,
	// not a retryable condition.
	ErrScoreCountMismatch = errors.New("score count does not match text count")

	// ErrScoreOutOfRange indicates a backend produced a score outside [0,1].
	ErrScoreOutOfRange = errors.New("score out of range")

	// ErrScorerClosed indicates a call on a closed scorer.
	ErrScorerClosed = errors.New("scorer is closed")
)
