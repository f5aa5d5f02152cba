package match

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"registry-backend/internal/normalize"
)

// Policy selects how a business-name query is matched against the
// normalized name of a candidate row.
type Policy string

const (
	// PolicyToken requires every query token to appear as a substring
	// of the normalized name, in any order.
	PolicyToken Policy = "token"
	// PolicyChars requires every character of the query to occur
	// somewhere in the normalized name. Looser than substring
	// containment: it admits anagram-style matches, trading precision
	// for recall.
	PolicyChars Policy = "chars"
	// PolicyFuzzy keeps rows whose token-set ratio against the query
	// reaches the threshold.
	PolicyFuzzy Policy = "fuzzy"
	// PolicyTokenFuzzy applies PolicyToken as a pre-filter and then
	// PolicyFuzzy at a tightened threshold.
	PolicyTokenFuzzy Policy = "token_fuzzy"
)

const (
	DefaultThreshold    = 75
	TokenFuzzyThreshold = 80
)

// ParsePolicy maps a request parameter to a Policy, falling back to
// the given default for empty or unknown values.
func ParsePolicy(s string, fallback Policy) Policy {
	switch Policy(s) {
	case PolicyToken, PolicyChars, PolicyFuzzy, PolicyTokenFuzzy:
		return Policy(s)
	}
	return fallback
}

// Matcher applies one policy to normalized business names. Build one
// per query; Match is read-only and safe for repeated calls.
type Matcher struct {
	policy    Policy
	threshold int
	folded    string
	tokens    []string
}

// New builds a Matcher for one query. A negative threshold selects the
// policy default; zero is honored as a real cutoff, so every candidate
// passes the fuzzy policies.
func New(policy Policy, query string, threshold int) *Matcher {
	if threshold < 0 {
		threshold = DefaultThreshold
		if policy == PolicyTokenFuzzy {
			threshold = TokenFuzzyThreshold
		}
	}
	return &Matcher{
		policy:    policy,
		threshold: threshold,
		folded:    normalize.Fold(query),
		tokens:    normalize.Tokens(query),
	}
}

func (m *Matcher) Threshold() int { return m.threshold }

// Match reports whether a normalized name passes the active policy.
// An empty query matches everything.
func (m *Matcher) Match(name string) bool {
	if m.folded == "" {
		return true
	}
	switch m.policy {
	case PolicyToken:
		return m.containsTokens(name)
	case PolicyChars:
		return m.containsChars(name)
	case PolicyTokenFuzzy:
		return m.containsTokens(name) && TokenSetRatio(m.folded, name) >= m.threshold
	default:
		return TokenSetRatio(m.folded, name) >= m.threshold
	}
}

func (m *Matcher) containsTokens(name string) bool {
	for _, tok := range m.tokens {
		if !strings.Contains(name, tok) {
			return false
		}
	}
	return true
}

func (m *Matcher) containsChars(name string) bool {
	for _, r := range m.folded {
		if !strings.ContainsRune(name, r) {
			return false
		}
	}
	return true
}

// TokenSetRatio scores two strings 0-100 regardless of token order.
// Both sides are folded and tokenized; the score is the best pairwise
// similarity among the sorted token intersection and each side's
// intersection-plus-remainder, so full-subset queries score 100 and
// partial overlaps degrade gracefully.
func TokenSetRatio(a, b string) int {
	ta := tokenSet(a)
	tb := tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		if len(ta) == 0 && len(tb) == 0 {
			return 100
		}
		return 0
	}

	var inter, restA, restB []string
	for tok := range ta {
		if tb[tok] {
			inter = append(inter, tok)
		} else {
			restA = append(restA, tok)
		}
	}
	for tok := range tb {
		if !ta[tok] {
			restB = append(restB, tok)
		}
	}
	sort.Strings(inter)
	sort.Strings(restA)
	sort.Strings(restB)

	joined := strings.Join(inter, " ")
	combA := joined
	if len(restA) > 0 {
		combA = strings.TrimSpace(joined + " " + strings.Join(restA, " "))
	}
	combB := joined
	if len(restB) > 0 {
		combB = strings.TrimSpace(joined + " " + strings.Join(restB, " "))
	}

	best := similarity(combA, combB)
	if len(inter) > 0 {
		if s := similarity(joined, combA); s > best {
			best = s
		}
		if s := similarity(joined, combB); s > best {
			best = s
		}
	}
	return best
}

func tokenSet(s string) map[string]bool {
	set := map[string]bool{}
	for _, tok := range normalize.Tokens(s) {
		set[tok] = true
	}
	return set
}

// similarity converts edit distance to a 0-100 score over the longer
// rune length.
func similarity(a, b string) int {
	if a == b {
		return 100
	}
	la := len([]rune(a))
	lb := len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 100
	}
	d := levenshtein.ComputeDistance(a, b)
	score := 100 * (longest - d) / longest
	if score < 0 {
		score = 0
	}
	return score
}
