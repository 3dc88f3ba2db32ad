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
	"math"
	"os"
)

// Model is a linear sentiment model over vocabulary indices.
// The score of a token sequence is sigmoid(bias + mean(weights)).
type Model struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

// LoadModel reads model weights from a JSON file.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidModel, err)
	}

	var model Model
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidModel, err)
	}

	if len(model.Weights) == 0 {
		return nil, fmt.Errorf("%w: no weights", ErrInvalidModel)
	}

	return &model, nil
}

// Score computes the sentiment score for a sequence of vocabulary indices.
// An empty sequence scores as sigmoid(bias), the model's neutral point.
func (m *Model) Score(indices []int) (float64, error) {
	var sum float64
	for _, idx := range indices {
		if idx < 0 || idx >= len(m.Weights) {
			return 0, fmt.Errorf("%w: index %d outside %d weights", ErrInvalidModel, idx, len(m.Weights))
		}
		sum += m.Weights[idx]
	}

	activation := m.Bias
	if len(indices) > 0 {
		activation += sum / float64(len(indices))
	}
	return sigmoid(activation), nil
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
