package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenSetRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want func(t *testing.T, score int)
	}{
		{
			name: "identical_strings_score_100",
			a:    "맛집본점", b: "맛집본점",
			want: func(t *testing.T, s int) { assert.Equal(t, 100, s) },
		},
		{
			name: "reordered_tokens_score_100",
			a:    "본점 맛집", b: "맛집 본점",
			want: func(t *testing.T, s int) { assert.Equal(t, 100, s) },
		},
		{
			name: "subset_tokens_score_100",
			a:    "맛집", b: "맛집 본점",
			want: func(t *testing.T, s int) { assert.Equal(t, 100, s) },
		},
		{
			name: "disjoint_strings_score_low",
			a:    "abcd", b: "wxyz",
			want: func(t *testing.T, s int) { assert.Equal(t, 0, s) },
		},
		{
			name: "partial_overlap_between_0_and_100",
			a:    "서울맛집", b: "서울식당",
			want: func(t *testing.T, s int) {
				assert.Greater(t, s, 0)
				assert.Less(t, s, 100)
			},
		},
		{
			name: "both_empty_score_100",
			a:    "", b: "",
			want: func(t *testing.T, s int) { assert.Equal(t, 100, s) },
		},
		{
			name: "one_empty_scores_0",
			a:    "맛집", b: "",
			want: func(t *testing.T, s int) { assert.Equal(t, 0, s) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.want(t, TokenSetRatio(tt.a, tt.b))
		})
	}
}

func TestTokenSetRatioDeterministic(t *testing.T) {
	first := TokenSetRatio("강남 맛집 본점", "본점 강남 식당")
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, TokenSetRatio("강남 맛집 본점", "본점 강남 식당"))
	}
}

func TestPolicyToken(t *testing.T) {
	m := New(PolicyToken, "맛집 본점", 0)

	assert.True(t, m.Match("서울맛집본점"))
	assert.True(t, m.Match("본점맛집"), "order independent")
	assert.False(t, m.Match("서울맛집"), "missing token rejects")
}

func TestPolicyChars(t *testing.T) {
	m := New(PolicyChars, "bca", 0)

	// Documented false positive: any permutation of the query's
	// characters is accepted even when it is not a substring.
	assert.True(t, m.Match("abc"))
	assert.True(t, m.Match("xaxbxcx"))
	assert.False(t, m.Match("ab"), "missing character rejects")

	kr := New(PolicyChars, "맛집", 0)
	assert.True(t, kr.Match("집맛촌"))
	assert.False(t, kr.Match("맛나식당"))
}

func TestPolicyFuzzy(t *testing.T) {
	m := New(PolicyFuzzy, "맛집본점", -1)
	assert.Equal(t, DefaultThreshold, m.Threshold())

	assert.True(t, m.Match("맛집본점"), "identical scores 100")
	assert.False(t, m.Match("전혀다른이름"), "disjoint stays below threshold")
}

func TestPolicyTokenFuzzyTightensThreshold(t *testing.T) {
	m := New(PolicyTokenFuzzy, "맛집", -1)
	assert.Equal(t, TokenFuzzyThreshold, m.Threshold())

	assert.True(t, m.Match("맛집"))
	// Token pre-filter rejects before any scoring happens.
	assert.False(t, m.Match("식당본점"))
}

func TestEmptyQueryMatchesAll(t *testing.T) {
	for _, p := range []Policy{PolicyToken, PolicyChars, PolicyFuzzy, PolicyTokenFuzzy} {
		m := New(p, "   ", 0)
		assert.True(t, m.Match("아무업소"), string(p))
	}
}

func TestParsePolicy(t *testing.T) {
	assert.Equal(t, PolicyChars, ParsePolicy("chars", PolicyFuzzy))
	assert.Equal(t, PolicyFuzzy, ParsePolicy("", PolicyFuzzy))
	assert.Equal(t, PolicyFuzzy, ParsePolicy("nonsense", PolicyFuzzy))
}

func TestCustomThreshold(t *testing.T) {
	strict := New(PolicyFuzzy, "맛집본점", 99)
	assert.True(t, strict.Match("맛집본점"))
	assert.False(t, strict.Match("맛집본관"))

	loose := New(PolicyFuzzy, "맛집본점", 50)
	assert.True(t, loose.Match("맛집본관"))
}

func TestZeroThresholdIsExplicit(t *testing.T) {
	m := New(PolicyFuzzy, "abcd", 0)
	assert.Equal(t, 0, m.Threshold(), "zero is a real cutoff, not unset")
	assert.True(t, m.Match("wxyz"), "score 0 passes a 0 cutoff")

	pre := New(PolicyTokenFuzzy, "맛집", 0)
	assert.Equal(t, 0, pre.Threshold())
	assert.True(t, pre.Match("서울맛집"))
	assert.False(t, pre.Match("식당본점"), "token pre-filter still applies")
}
