package keypad_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-smartdial/internal/keypad"
)

func TestDigit(t *testing.T) {
	tests := []struct {
		name  string
		input rune
		want  byte
		ok    bool
	}{
		{name: "lowercase letter", input: 'a', want: '2', ok: true},
		{name: "uppercase letter", input: 'N', want: '6', ok: true},
		{name: "four-letter key pqrs", input: 's', want: '7', ok: true},
		{name: "four-letter key wxyz", input: 'z', want: '9', ok: true},
		{name: "digit maps to itself", input: '7', want: '7', ok: true},
		{name: "accented letter folds to its base", input: 'é', want: '3', ok: true},
		{name: "uppercase accented letter", input: 'Ñ', want: '6', ok: true},
		{name: "punctuation is not encodable", input: '-', ok: false},
		{name: "plus sign is not encodable", input: '+', ok: false},
		{name: "non-latin script is not encodable", input: 'ж', ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := keypad.Digit(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestDigitAlphabet(t *testing.T) {
	keys := map[byte]string{
		'2': "abc",
		'3': "def",
		'4': "ghi",
		'5': "jkl",
		'6': "mno",
		'7': "pqrs",
		'8': "tuv",
		'9': "wxyz",
	}
	for digit, letters := range keys {
		for _, r := range letters {
			got, ok := keypad.Digit(r)
			require.True(t, ok, string(r))
			assert.Equal(t, digit, got, string(r))
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "letters map to keypad digits", input: "Ann", want: "266"},
		{name: "formatted number strips punctuation", input: "(650) 555-1234", want: "6505551234"},
		{name: "international prefix is dropped", input: "+1 650.555.1234", want: "16505551234"},
		{name: "vanity number", input: "1-800-FLOWERS", want: "18003569377"},
		{name: "diacritics fold before mapping", input: "José", want: "5673"},
		{name: "empty input", input: "", want: ""},
		{name: "only punctuation", input: "--() ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, keypad.Normalize(tt.input))
		})
	}
}

func TestEncodeRunes(t *testing.T) {
	digits, origin := keypad.EncodeRunes([]rune("O'Neil"))
	assert.Equal(t, "66345", string(digits))
	assert.Equal(t, []int{0, 2, 3, 4, 5}, origin)
}

func TestNameTokens(t *testing.T) {
	tokens := keypad.NameTokens("  Ann   Lee-Smith ")
	assert.Equal(t, []keypad.Token{
		{Text: "Ann", Start: 2},
		{Text: "Lee-Smith", Start: 8},
	}, tokens)

	assert.Empty(t, keypad.NameTokens("   "))
}

func TestNumberTokenStarts(t *testing.T) {
	assert.Equal(t, []int{1, 6, 10}, keypad.NumberTokenStarts("(650) 555-1234"))
	assert.Equal(t, []int{0, 3, 7, 11}, keypad.NumberTokenStarts("+1 650.555.1234"))
	assert.Equal(t, []int{0}, keypad.NumberTokenStarts("5551234"))
	assert.Nil(t, keypad.NumberTokenStarts(""))
}

func TestNamePrefixes(t *testing.T) {
	prefixes := keypad.NamePrefixes("Ann Lee")
	assert.Equal(t, []string{"2", "26", "266", "5", "53", "533"}, prefixes)

	t.Run("tokens sharing prefixes are not duplicated", func(t *testing.T) {
		prefixes := keypad.NamePrefixes("Bob Ann")
		// bob = 262, ann = 266
		assert.Equal(t, []string{"2", "26", "262", "266"}, prefixes)
	})
}

func TestNumberPrefixes(t *testing.T) {
	prefixes := keypad.NumberPrefixes("555-1234")
	assert.Equal(t, []string{
		"5", "55", "555", "5551", "55512", "555123", "5551234",
		"1", "12", "123", "1234",
	}, prefixes)

	assert.Empty(t, keypad.NumberPrefixes(""))
}
