package lexicon

import (
	"regexp"
	"strings"
)

// Placeholder tokens substituted for volatile post fragments so that the
// vocabulary stays small and stable.
var (
	urlRe      = regexp.MustCompile(`(?i)\bhttps?://\S+|\bwww\.\S+`)
	usernameRe = regexp.MustCompile(`@[\w_]+`)
	hashtagRe  = regexp.MustCompile(`#+[\w_]+[\w'_\-]*[\w_]+`)
	numberRe   = regexp.MustCompile(`[+\-]?(\d+[,.]?\d*|[,.]\d+)`)

	// tokenRe matches placeholder tags and word tokens after normalization.
	tokenRe = regexp.MustCompile(`<[a-z]+>|[\w']+`)

	emoticonReplacer = strings.NewReplacer(
		":-)", " <smileface> ",
		":)", " <smileface> ",
		":-D", " <lolface> ",
		":D", " <lolface> ",
		":|", " <neutralface> ",
		":-(", " <sadface> ",
		":(", " <sadface> ",
	)
)

// Preprocess normalizes raw post text: URLs, mentions, hashtags, numbers,
// and common emoticons become placeholder tokens. Replacement order matters:
// URLs first so their digits and punctuation never match later patterns.
func Preprocess(text string) string {
	text = urlRe.ReplaceAllString(text, "<url>")
	text = usernameRe.ReplaceAllString(text, "<user>")
	text = hashtagRe.ReplaceAllString(text, "<hashtag>")
	text = numberRe.ReplaceAllString(text, "<number>")
	text = emoticonReplacer.Replace(text)
	return text
}

// Tokenize lowercases normalized text and splits it into word and
// placeholder tokens.
func Tokenize(text string) []string {
	return tokenRe.FindAllString(strings.ToLower(Preprocess(text)), -1)
}
