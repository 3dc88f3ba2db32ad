package mock

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/poiesic/sentipipe/scoring"
)

// MockScorer is a test double for scoring.Scorer.
// It allows custom behavior injection via function fields and records calls
// so tests can assert batching discipline.
type MockScorer struct {
	// ScoreTextFunc is called by ScoreText if set.
	// If nil, uses default deterministic behavior.
	ScoreTextFunc func(ctx context.Context, text string) (float64, error)

	// ScoreTextsFunc is called by ScoreTexts if set.
	// If nil, uses default deterministic behavior.
	ScoreTextsFunc func(ctx context.Context, texts []string) ([]float64, error)

	// CloseFunc is called by Close if set.
	CloseFunc func() error

	mu         sync.Mutex
	batchSizes []int
	callCount  int
	closeCount int
}

// NewMockScorer creates a mock scorer with default deterministic behavior.
// Note: returns the concrete type to allow test assertions.
func NewMockScorer() *MockScorer {
	return &MockScorer{}
}

// ScoreText returns a deterministic score derived from the text hash.
func (m *MockScorer) ScoreText(ctx context.Context, text string) (float64, error) {
	m.record(1)

	if m.ScoreTextFunc != nil {
		return m.ScoreTextFunc(ctx, text)
	}
	return deterministicScore(text), nil
}

// ScoreTexts returns deterministic scores for each text, in order.
func (m *MockScorer) ScoreTexts(ctx context.Context, texts []string) ([]float64, error) {
	m.record(len(texts))

	if m.ScoreTextsFunc != nil {
		return m.ScoreTextsFunc(ctx, texts)
	}

	scores := make([]float64, len(texts))
	for i, text := range texts {
		scores[i] = deterministicScore(text)
	}
	return scores, nil
}

// Close records the call and delegates to CloseFunc if set.
func (m *MockScorer) Close() error {
	m.mu.Lock()
	m.closeCount++
	m.mu.Unlock()

	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// CallCount returns the number of scoring calls made.
func (m *MockScorer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// CloseCount returns the number of times Close was called.
func (m *MockScorer) CloseCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeCount
}

// BatchSizes returns the sizes of all scoring calls, in call order.
func (m *MockScorer) BatchSizes() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]int, len(m.batchSizes))
	copy(out, m.batchSizes)
	return out
}

// Reset clears recorded calls and injected behavior.
func (m *MockScorer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batchSizes = nil
	m.callCount = 0
	m.closeCount = 0
	m.ScoreTextFunc = nil
	m.ScoreTextsFunc = nil
	m.CloseFunc = nil
}

func (m *MockScorer) record(size int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount++
	m.batchSizes = append(m.batchSizes, size)
}

// deterministicScore maps text onto a stable score in [0,1).
func deterministicScore(text string) float64 {
	h := fnv.New32a()
	h.Write([]byte(text))
	return float64(h.Sum32()%1000) / 1000
}

var _ scoring.Scorer = (*MockScorer)(nil)
