package lexicon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreprocess(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"url", "read this https://example.com/a?b=1", "read this <url>"},
		{"www url", "see www.example.org now", "see <url> now"},
		{"mention", "hey @some_user what's up", "hey <user> what's up"},
		{"hashtag", "loving it #great_day", "loving it <hashtag>"},
		{"number", "scored 42 points", "scored <number> points"},
		{"decimal", "up 3.5 percent", "up <number> percent"},
		{"smile", "nice one :)", "nice one  <smileface> "},
		{"sad", "oh no :(", "oh no  <sadface> "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Preprocess(tt.in))
		})
	}
}

func TestTokenize(t *testing.T) {
	t.Run("lowercases and splits", func(t *testing.T) {
		assert.Equal(t,
			[]string{"what", "a", "lovely", "day"},
			Tokenize("What a LOVELY day!"))
	})

	t.Run("placeholders survive as single tokens", func(t *testing.T) {
		assert.Equal(t,
			[]string{"<user>", "check", "<url>", "<smileface>"},
			Tokenize("@friend check https://example.com :)"))
	})

	t.Run("empty text", func(t *testing.T) {
		assert.Empty(t, Tokenize(""))
	})
}
