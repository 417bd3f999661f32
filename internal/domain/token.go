package domain

import "strings"

// Token is a normalized word: lowercase ASCII letters only.
// It is the canonical identity for every comparison.
type Token string

func (t Token) String() string { return string(t) }

// IsEmpty reports whether the token carries no letters.
func (t Token) IsEmpty() bool { return t == "" }

// NormalizeToken prepares a raw pool line for comparison:
//   - converts to lowercase
//   - drops every character outside a-z (digits, punctuation, spaces,
//     diacritics and other non-ASCII letters)
//
// A line with no ASCII letters normalizes to the empty token.
func NormalizeToken(raw string) Token {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range strings.ToLower(raw) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return Token(b.String())
}

// Pool is the ordered set of tokens under classification for one request.
// Order is significant: it breaks neighbor ties and makes seeded sampling
// reproducible.
type Pool struct {
	ID    string
	Words []Token
}

// Len returns the number of entries in the pool, duplicates included.
func (p Pool) Len() int { return len(p.Words) }
