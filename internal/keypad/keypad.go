// Package keypad maps letters to the digit they share a key with on a
// 12-key telephone keypad and derives the digit prefixes stored in the
// smart-dial prefix index.
package keypad

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// letterDigits holds the keypad digit of 'a'..'z', in order:
// abc def ghi jkl mno pqrs tuv wxyz
const letterDigits = "22233344455566677778889999"

// numberSeparators are the characters conventionally used to format phone numbers
const numberSeparators = " -()./"

// Token is a whitespace-delimited word of a display name
type Token struct {
	Text  string
	Start int // rune offset of the token inside the original string
}

// fold lowercases r and strips any combining marks, so 'É' folds to 'e'
func fold(r rune) rune {
	if r < utf8.RuneSelf {
		return unicode.ToLower(r)
	}
	decomposed := norm.NFD.String(string(r))
	base, _ := utf8.DecodeRuneInString(decomposed)
	return unicode.ToLower(base)
}

// Digit returns the keypad digit for r. Digits map to themselves, letters
// (including accented latin letters) map to their key. Every other rune is
// not encodable.
func Digit(r rune) (byte, bool) {
	r = fold(r)
	switch {
	case r >= '0' && r <= '9':
		return byte(r), true
	case r >= 'a' && r <= 'z':
		return letterDigits[r-'a'], true
	default:
		return 0, false
	}
}

// Normalize strips every non-alphanumeric rune from s and maps letters to
// keypad digits. It is used for both typed queries and phone numbers.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if d, ok := Digit(r); ok {
			b.WriteByte(d)
		}
	}
	return b.String()
}

// EncodeRunes encodes runes to keypad digits and returns, for each digit,
// the index of the rune it was produced from.
func EncodeRunes(runes []rune) ([]byte, []int) {
	digits := make([]byte, 0, len(runes))
	origin := make([]int, 0, len(runes))
	for i, r := range runes {
		if d, ok := Digit(r); ok {
			digits = append(digits, d)
			origin = append(origin, i)
		}
	}
	return digits, origin
}

// NameTokens splits a display name on whitespace
func NameTokens(name string) []Token {
	var tokens []Token
	var current []rune
	start := 0
	pos := 0
	for _, r := range name {
		if unicode.IsSpace(r) {
			if len(current) > 0 {
				tokens = append(tokens, Token{Text: string(current), Start: start})
				current = current[:0]
			}
		} else {
			if len(current) == 0 {
				start = pos
			}
			current = append(current, r)
		}
		pos++
	}
	if len(current) > 0 {
		tokens = append(tokens, Token{Text: string(current), Start: start})
	}
	return tokens
}

// NumberTokenStarts returns the rune offsets at which a separator-delimited
// token of number begins.
func NumberTokenStarts(number string) []int {
	runes := []rune(number)
	var starts []int
	for i, r := range runes {
		if isSeparator(r) {
			continue
		}
		if i == 0 || isSeparator(runes[i-1]) {
			starts = append(starts, i)
		}
	}
	return starts
}

func isSeparator(r rune) bool {
	return strings.ContainsRune(numberSeparators, r)
}

// NamePrefixes returns every successive-character keypad prefix of every
// token of name, without duplicates.
func NamePrefixes(name string) []string {
	seen := make(map[string]struct{})
	var prefixes []string
	for _, token := range NameTokens(name) {
		prefixes = appendPrefixes(prefixes, seen, Normalize(token.Text))
	}
	return prefixes
}

// NumberPrefixes returns the digit prefixes of the normalized number and of
// the normalized remainder starting at every separator-delimited token,
// without duplicates.
func NumberPrefixes(number string) []string {
	runes := []rune(number)
	seen := make(map[string]struct{})
	var prefixes []string
	for _, start := range NumberTokenStarts(number) {
		prefixes = appendPrefixes(prefixes, seen, Normalize(string(runes[start:])))
	}
	return prefixes
}

func appendPrefixes(prefixes []string, seen map[string]struct{}, encoded string) []string {
	for i := 1; i <= len(encoded); i++ {
		p := encoded[:i]
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		prefixes = append(prefixes, p)
	}
	return prefixes
}
