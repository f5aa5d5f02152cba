package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"ascii_mixed_case", "ABC Cafe", "abccafe"},
		{"korean_with_spaces", "서울 특별시 강남구", "서울특별시강남구"},
		{"tabs_and_newlines", "맛집\t본점\n2호", "맛집본점2호"},
		{"empty", "", ""},
		{"only_whitespace", " \t\n ", ""},
		{"multibyte_not_corrupted", "Café 서울", "café서울"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Fold(tt.input))
		})
	}
}

func TestFoldIdempotent(t *testing.T) {
	inputs := []string{"ABC Cafe", "서울 특별시", "  MiXeD\tCase  ", "już früher"}
	for _, s := range inputs {
		once := Fold(s)
		assert.Equal(t, once, Fold(once))
	}
}

func TestTokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"space_separated", "맛집 본점", []string{"맛집", "본점"}},
		{"punctuation_boundaries", "abc-def(주)", []string{"abc", "def", "주"}},
		{"underscore_kept", "bssh_norm", []string{"bssh_norm"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokens(tt.input)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrefix(t *testing.T) {
	// Region prefixes are rune-based: 서울특별시 -> 서울특별.
	assert.Equal(t, "서울특별", Prefix("서울특별시", 4))
	assert.Equal(t, "부산광역", Prefix("부산광역시", 4))
	assert.Equal(t, "ab", Prefix("AB", 4))
	assert.Equal(t, "서울특별", Prefix(" 서울 특별시 ", 4))
}
