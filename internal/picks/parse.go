package picks

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/yourusername/pool-edge/internal/models"
)

// ValidationError carries every problem found in a set of user picks.
type ValidationError struct {
	Problems []string
	err      error
}

func (e *ValidationError) Error() string {
	return "invalid picks: " + strings.Join(e.Problems, "; ")
}

// Unwrap exposes the individual problems.
func (e *ValidationError) Unwrap() []error {
	return multierr.Errors(e.err)
}

func newValidationError(err error) *ValidationError {
	errs := multierr.Errors(err)
	problems := make([]string, len(errs))
	for i, e := range errs {
		problems[i] = e.Error()
	}
	return &ValidationError{Problems: problems, err: err}
}

// SplitInput splits team names separated by commas or line breaks, dropping
// empty entries.
func SplitInput(input string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(input, isPickSeparator) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func isPickSeparator(r rune) bool {
	return r == ',' || r == '\n' || r == '\r'
}

// Parse resolves team names listed from most to least confident into an
// entry aligned with slate. The first name gets N points and the last gets 1.
// It returns the resolved team names in input order. Nothing is returned
// unless every name resolves and every game has exactly one pick.
func Parse(input []string, slate models.Slate) (models.Entry, []string, error) {
	n := slate.Len()
	if n == 0 {
		return models.Entry{}, nil, models.ErrNoGames
	}

	var errs error
	if len(input) != n {
		errs = multierr.Append(errs, fmt.Errorf("expected %d picks, got %d", n, len(input)))
	}

	resolver := NewResolver(slate.Teams())
	resolved := make([]string, len(input))
	firstSeen := make(map[string]int, len(input))
	for i, raw := range input {
		team, _, err := resolver.Resolve(raw)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("pick %d: %w", i+1, err))
			continue
		}
		resolved[i] = team
		if prev, dup := firstSeen[team]; dup {
			errs = multierr.Append(errs, fmt.Errorf("duplicate pick %q (%s) at positions %d and %d",
				strings.TrimSpace(raw), team, prev+1, i+1))
			continue
		}
		firstSeen[team] = i
	}

	entry := models.Entry{Picks: make([]bool, n), Confidence: make([]int, n)}
	for g, game := range slate.Games {
		home, hasHome := firstSeen[game.HomeTeam]
		away, hasAway := firstSeen[game.AwayTeam]
		switch {
		case hasHome && hasAway:
			errs = multierr.Append(errs, fmt.Errorf("both teams picked in %s at %s", game.AwayTeam, game.HomeTeam))
		case hasHome:
			entry.Picks[g] = game.HomeTeam == game.Favorite
			entry.Confidence[g] = n - home
		case hasAway:
			entry.Picks[g] = game.AwayTeam == game.Favorite
			entry.Confidence[g] = n - away
		default:
			errs = multierr.Append(errs, fmt.Errorf("no pick for %s at %s", game.AwayTeam, game.HomeTeam))
		}
	}

	if errs != nil {
		return models.Entry{}, nil, newValidationError(errs)
	}
	if err := models.ValidateEntry(entry, n); err != nil {
		return models.Entry{}, nil, newValidationError(err)
	}
	return entry, resolved, nil
}
