package simulator

import (
	"sort"
	"strings"

	"github.com/yourusername/pool-edge/internal/models"
	"github.com/yourusername/pool-edge/internal/strategy"
)

// Contrarian-rate cut-offs: below SlightRate is chalk, below AggressiveRate is
// slight contrarian, anything else aggressive.
const (
	SlightRate     = 0.10
	AggressiveRate = 0.25
)

// PlayerProfile is one opponent's historical picking style.
type PlayerProfile struct {
	Player          string        `json:"player"`
	Picks           int           `json:"picks"`
	ContrarianPicks int           `json:"contrarian_picks"`
	ContrarianRate  float64       `json:"contrarian_rate"`
	Weeks           int           `json:"weeks"`
	Kind            strategy.Kind `json:"-"`
	Strategy        string        `json:"strategy"`
}

// ClassifyRate maps a contrarian rate to the built-in strategy it resembles.
func ClassifyRate(rate float64) strategy.Kind {
	switch {
	case rate < SlightRate:
		return strategy.KindChalk
	case rate < AggressiveRate:
		return strategy.KindSlightContrarian
	default:
		return strategy.KindAggressiveContrarian
	}
}

type weekGame struct {
	season, week int
	game         models.PendingGame
}

// fieldFavorites returns the team more than half the league picked in each
// game. Toss-ups have no entry. Picks without an opponent are ignored.
func fieldFavorites(picks []models.PlayerPick) map[weekGame]string {
	counts := make(map[weekGame]map[string]int)
	for _, p := range picks {
		if p.Opponent == "" {
			continue
		}
		key := weekGame{p.Season, p.Week, models.NewPendingGame(p.Team, p.Opponent)}
		if counts[key] == nil {
			counts[key] = make(map[string]int, 2)
		}
		counts[key][p.Team]++
	}

	favorites := make(map[weekGame]string, len(counts))
	for key, byTeam := range counts {
		total := byTeam[key.game.TeamA] + byTeam[key.game.TeamB]
		for _, team := range []string{key.game.TeamA, key.game.TeamB} {
			if 2*byTeam[team] > total {
				favorites[key] = team
			}
		}
	}
	return favorites
}

// ProfilePlayers classifies every player found in picks except exclude
// (matched case-insensitively). A pick is contrarian when it goes against the
// field favorite of its game; picks in toss-ups or unknown games are not.
// Profiles are sorted by player name.
func ProfilePlayers(picks []models.PlayerPick, exclude string) []PlayerProfile {
	favorites := fieldFavorites(picks)

	byPlayer := make(map[string]*PlayerProfile)
	weeks := make(map[string]map[[2]int]struct{})
	for _, p := range picks {
		if exclude != "" && strings.EqualFold(p.Player, exclude) {
			continue
		}
		prof, ok := byPlayer[p.Player]
		if !ok {
			prof = &PlayerProfile{Player: p.Player}
			byPlayer[p.Player] = prof
			weeks[p.Player] = make(map[[2]int]struct{})
		}
		prof.Picks++
		weeks[p.Player][[2]int{p.Season, p.Week}] = struct{}{}
		if p.Opponent == "" {
			continue
		}
		fav, ok := favorites[weekGame{p.Season, p.Week, models.NewPendingGame(p.Team, p.Opponent)}]
		if ok && fav != p.Team {
			prof.ContrarianPicks++
		}
	}

	profiles := make([]PlayerProfile, 0, len(byPlayer))
	for name, prof := range byPlayer {
		prof.Weeks = len(weeks[name])
		if prof.Picks > 0 {
			prof.ContrarianRate = float64(prof.ContrarianPicks) / float64(prof.Picks)
		}
		prof.Kind = ClassifyRate(prof.ContrarianRate)
		prof.Strategy = prof.Kind.String()
		profiles = append(profiles, *prof)
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Player < profiles[j].Player })
	return profiles
}

// FieldFromProfiles counts players per strategy.
func FieldFromProfiles(profiles []PlayerProfile) FieldComposition {
	field := FieldComposition{
		strategy.KindChalk:                0,
		strategy.KindSlightContrarian:     0,
		strategy.KindAggressiveContrarian: 0,
	}
	for _, p := range profiles {
		field[p.Kind]++
	}
	return field
}

// FieldFromHistory classifies every opponent in picks, leaving out the
// user, and returns the resulting composition.
func FieldFromHistory(picks []models.PlayerPick, user string) (FieldComposition, []PlayerProfile) {
	profiles := ProfilePlayers(picks, user)
	return FieldFromProfiles(profiles), profiles
}

// Scale apportions the composition to n opponents by largest remainder,
// keeping the observed proportions. Remainder ties go to the lower kind.
func (f FieldComposition) Scale(n int) (FieldComposition, error) {
	total := f.Size()
	if total == 0 || n <= 0 {
		return nil, models.ErrEmptyField
	}

	kinds := make([]strategy.Kind, 0, len(f))
	for k := range f {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	scaled := make(FieldComposition, len(f))
	remainders := make(map[strategy.Kind]int, len(f))
	assigned := 0
	for _, k := range kinds {
		share := f[k] * n
		scaled[k] = share / total
		remainders[k] = share % total
		assigned += scaled[k]
	}

	sort.SliceStable(kinds, func(i, j int) bool { return remainders[kinds[i]] > remainders[kinds[j]] })
	for i := 0; assigned < n; i++ {
		scaled[kinds[i%len(kinds)]]++
		assigned++
	}
	return scaled, nil
}
