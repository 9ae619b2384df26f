// Package matcher confirms loose prefix-index hits and computes the
// highlight spans shown for a smart-dial match.
package matcher

import (
	"bytes"

	"github.com/feral-file/ff-smartdial/internal/domain"
	"github.com/feral-file/ff-smartdial/internal/keypad"
)

// MatchesName reports the spans of every whitespace-delimited token of name
// whose keypad encoding starts with query. It returns nil when no token
// matches or the query has no encodable characters.
func MatchesName(query, name string) []domain.Span {
	q := []byte(keypad.Normalize(query))
	if len(q) == 0 {
		return nil
	}

	var spans []domain.Span
	for _, token := range keypad.NameTokens(name) {
		if span, ok := matchRunes(q, []rune(token.Text)); ok {
			spans = append(spans, domain.Span{
				Start: token.Start + span.Start,
				End:   token.Start + span.End,
			})
		}
	}
	return spans
}

// MatchesNumber tests query as a literal digit prefix of number once
// formatting is stripped. The match is tried from the start of the number and
// then from every separator-delimited token, so a local number typed without
// its area code still matches. The first matching position wins.
func MatchesNumber(query, number string) *domain.Span {
	q := []byte(keypad.Normalize(query))
	if len(q) == 0 {
		return nil
	}

	runes := []rune(number)
	for _, start := range keypad.NumberTokenStarts(number) {
		if span, ok := matchRunes(q, runes[start:]); ok {
			return &domain.Span{
				Start: start + span.Start,
				End:   start + span.End,
			}
		}
	}
	return nil
}

// matchRunes encodes runes and checks that q is a prefix of the encoding.
// The returned span covers the runes consumed by the match, including any
// punctuation between matched digits.
func matchRunes(q []byte, runes []rune) (domain.Span, bool) {
	digits, origin := keypad.EncodeRunes(runes)
	if !bytes.HasPrefix(digits, q) {
		return domain.Span{}, false
	}
	return domain.Span{
		Start: origin[0],
		End:   origin[len(q)-1] + 1,
	}, true
}
