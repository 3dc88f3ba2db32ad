// Package scoring defines the sentiment scoring boundary of the pipeline.
//
// A Scorer maps text to a sentiment score in [0,1], singly or in batch.
// Implementations live in subpackages:
//   - lexicon: a local model loaded from a weights file and a vocabulary file
//   - openai: an LLM backend over any OpenAI-compatible API
//   - mock: a test double with injectable behavior
//
// Workers do not share scorers. Each scoring worker constructs its own
// instance through a Factory and closes it when it terminates.
package scoring
