package repl

import (
	"errors"
	"strings"
	"unicode"
)

// ErrUnterminatedQuote is returned by Tokenize for a line whose quote is never closed.
var ErrUnterminatedQuote = errors.New("unterminated quote")

// Tokenize splits line on whitespace. Double quotes group words into one
// token anywhere in a word. A single quote groups only when it opens a token,
// so an apostrophe inside a word such as "Don't" is kept as written. A
// backslash takes the next rune literally except inside single quotes. A '#'
// is an ordinary rune.
func Tokenize(line string) ([]string, error) {
	var (
		tokens  []string
		cur     strings.Builder
		inToken bool
		quote   rune
		escaped bool
	)
	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
			inToken = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '"' || (r == '\'' && !inToken):
			quote = r
			inToken = true
		case unicode.IsSpace(r):
			if inToken {
				tokens = append(tokens, cur.String())
				cur.Reset()
				inToken = false
			}
		default:
			cur.WriteRune(r)
			inToken = true
		}
	}
	if quote != 0 {
		return nil, ErrUnterminatedQuote
	}
	if escaped {
		cur.WriteRune('\\')
	}
	if inToken {
		tokens = append(tokens, cur.String())
	}
	return tokens, nil
}
