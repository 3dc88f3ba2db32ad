// Package lexicon implements a local sentiment scorer backed by two files:
// a vocabulary mapping tokens to indices and a linear model mapping indices
// to weights.
//
// Text is normalized the way short social posts need it (URLs, mentions,
// hashtags, numbers, and common emoticons are collapsed into placeholder
// tokens), tokenized, and looked up in the vocabulary; unseen tokens resolve
// to a designated unknown index instead of erroring. The model averages the
// token weights and squashes the result through a sigmoid, yielding a score
// in [0,1].
package lexicon
