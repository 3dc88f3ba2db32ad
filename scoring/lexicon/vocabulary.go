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


package lexicon

import (
	"encoding/json"
	"fmt"
	"os"
)

// UnknownTokenKey is the vocabulary entry whose index is assigned to every
// token not present in the vocabulary.
const UnknownTokenKey = "*#*UNK*#*"

// Vocabulary maps tokens to model indices, with a designated index for
// unseen tokens.
type Vocabulary struct {
	indices map[string]int
	unknown int
}

// LoadVocabulary reads a token-to-index vocabulary from a JSON file.
// The file must contain the UnknownTokenKey entry; its index becomes the
// fallback for unseen tokens.
func LoadVocabulary(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidVocabulary, err)
	}

	var indices map[string]int
	if err := json.Unmarshal(data, &indices); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidVocabulary, err)
	}

	unknown, ok := indices[UnknownTokenKey]
	if !ok {
		return nil, fmt.Errorf("%w: missing %q entry", ErrInvalidVocabulary, UnknownTokenKey)
	}
	delete(indices, UnknownTokenKey)

	return &Vocabulary{indices: indices, unknown: unknown}, nil
}

// Lookup returns the index for a token, or the unknown index for tokens
// outside the vocabulary.
func (v *Vocabulary) Lookup(token string) int {
	if idx, ok := v.indices[token]; ok {
		return idx
	}
	return v.unknown
}

// Indices maps an ordered token sequence onto model indices.
func (v *Vocabulary) Indices(tokens []string) []int {
	out := make([]int, len(tokens))
	for i, token := range tokens {
		out[i] = v.Lookup(token)
	}
	return out
}

// MaxIndex returns the largest index in the vocabulary, including the
// unknown index. Used to cross-check the vocabulary against a model.
func (v *Vocabulary) MaxIndex() int {
	max := v.unknown
	for _, idx := range v.indices {
		if idx > max {
			max = idx
		}
	}
	return max
}
