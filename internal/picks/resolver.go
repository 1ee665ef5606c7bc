// Package picks turns free-text team names typed in confidence order into a
// card aligned with the week's slate.
package picks

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Tier names the matching step that resolved a name.
type Tier int

const (
	TierNone Tier = iota
	TierExact
	TierSubstring
	TierAbbreviation
	TierFuzzy
)

func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierSubstring:
		return "substring"
	case TierAbbreviation:
		return "abbreviation"
	case TierFuzzy:
		return "fuzzy"
	default:
		return "none"
	}
}

const (
	minSubstringLen = 3
	// DefaultFuzzyThreshold is the minimum normalized similarity for a fuzzy match.
	DefaultFuzzyThreshold = 0.6
)

var abbreviations = map[string]string{
	"ari": "arizona cardinals",
	"atl": "atlanta falcons",
	"bal": "baltimore ravens",
	"buf": "buffalo bills",
	"car": "carolina panthers",
	"chi": "chicago bears",
	"cin": "cincinnati bengals",
	"cle": "cleveland browns",
	"dal": "dallas cowboys",
	"den": "denver broncos",
	"det": "detroit lions",
	"gb":  "green bay packers",
	"hou": "houston texans",
	"ind": "indianapolis colts",
	"jax": "jacksonville jaguars",
	"kc":  "kansas city chiefs",
	"lac": "los angeles chargers",
	"lar": "los angeles rams",
	"lv":  "las vegas raiders",
	"mia": "miami dolphins",
	"min": "minnesota vikings",
	"ne":  "new england patriots",
	"no":  "new orleans saints",
	"nyg": "new york giants",
	"nyj": "new york jets",
	"phi": "philadelphia eagles",
	"pit": "pittsburgh steelers",
	"sea": "seattle seahawks",
	"sf":  "san francisco 49ers",
	"tb":  "tampa bay buccaneers",
	"ten": "tennessee titans",
	"was": "washington commanders",
}

// Resolver matches user input against one week's team names.
type Resolver struct {
	teams          []string
	lower          []string
	FuzzyThreshold float64
}

// NewResolver creates a resolver over teams. Candidates are tried in sorted
// order so ambiguous input always resolves the same way.
func NewResolver(teams []string) *Resolver {
	sorted := append([]string(nil), teams...)
	sort.Strings(sorted)
	lower := make([]string, len(sorted))
	for i, t := range sorted {
		lower[i] = strings.ToLower(t)
	}
	return &Resolver{teams: sorted, lower: lower, FuzzyThreshold: DefaultFuzzyThreshold}
}

// Teams returns the candidate team names.
func (r *Resolver) Teams() []string {
	return append([]string(nil), r.teams...)
}

// MatchExact compares case-insensitively.
func (r *Resolver) MatchExact(input string) (string, bool) {
	in := normalize(input)
	for i, t := range r.lower {
		if in == t {
			return r.teams[i], true
		}
	}
	return "", false
}

// MatchSubstring accepts a team containing the input or contained in it, as
// long as the contained side is at least three characters.
func (r *Resolver) MatchSubstring(input string) (string, bool) {
	in := normalize(input)
	for i, t := range r.lower {
		if len(in) >= minSubstringLen && strings.Contains(t, in) {
			return r.teams[i], true
		}
		if len(t) >= minSubstringLen && strings.Contains(in, t) {
			return r.teams[i], true
		}
	}
	return "", false
}

// MatchAbbreviation expands a standard NFL abbreviation and looks for a team
// whose name contains the expansion.
func (r *Resolver) MatchAbbreviation(input string) (string, bool) {
	full, ok := abbreviations[normalize(input)]
	if !ok {
		return "", false
	}
	for i, t := range r.lower {
		if strings.Contains(t, full) {
			return r.teams[i], true
		}
	}
	return "", false
}

// MatchFuzzy returns the most similar team by edit distance when it clears
// the threshold.
func (r *Resolver) MatchFuzzy(input string) (string, bool) {
	in := normalize(input)
	if in == "" {
		return "", false
	}
	best, bestScore := -1, 0.0
	for i, t := range r.lower {
		if s := similarity(in, t); s > bestScore {
			best, bestScore = i, s
		}
	}
	if best < 0 || bestScore < r.FuzzyThreshold {
		return "", false
	}
	return r.teams[best], true
}

// Resolve applies every tier in order.
func (r *Resolver) Resolve(input string) (string, Tier, error) {
	tiers := []struct {
		tier  Tier
		match func(string) (string, bool)
	}{
		{TierExact, r.MatchExact},
		{TierSubstring, r.MatchSubstring},
		{TierAbbreviation, r.MatchAbbreviation},
		{TierFuzzy, r.MatchFuzzy},
	}
	for _, t := range tiers {
		if team, ok := t.match(input); ok {
			return team, t.tier, nil
		}
	}
	return "", TierNone, fmt.Errorf("could not match team %q", strings.TrimSpace(input))
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// similarity is 1 - distance/longest, in [0, 1].
func similarity(a, b string) float64 {
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}
