package simulator

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pool-edge/internal/models"
	"github.com/yourusername/pool-edge/internal/strategy"
)

func TestClassifyRate(t *testing.T) {
	tests := []struct {
		rate float64
		want strategy.Kind
	}{
		{0, strategy.KindChalk},
		{0.0999, strategy.KindChalk},
		{0.10, strategy.KindSlightContrarian},
		{0.2499, strategy.KindSlightContrarian},
		{0.25, strategy.KindAggressiveContrarian},
		{0.6, strategy.KindAggressiveContrarian},
		{1, strategy.KindAggressiveContrarian},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%.4f", tt.rate), func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyRate(tt.rate))
		})
	}
}

// historyPicks builds two weeks of four games each. Everyone takes the home
// team except the listed upsets, so every home team is the field favorite.
func historyPicks(upsets map[string][]int) []models.PlayerPick {
	players := []string{"alice", "bob", "carol", "dave", "Erin"}
	var rows []models.PlayerPick
	for week := 1; week <= 2; week++ {
		for g := 0; g < 4; g++ {
			slot := (week-1)*4 + g
			home, away := fmt.Sprintf("H%d%d", week, g), fmt.Sprintf("A%d%d", week, g)
			for _, player := range players {
				team, opp := home, away
				for _, u := range upsets[player] {
					if u == slot {
						team, opp = away, home
					}
				}
				rows = append(rows, models.PlayerPick{
					Season: 2025, Week: week, Player: player,
					Team: team, Opponent: opp, Confidence: g + 1,
				})
			}
		}
	}
	return rows
}

func TestProfilePlayers(t *testing.T) {
	rows := historyPicks(map[string][]int{
		"bob":   {0},
		"carol": {1, 4},
		"Erin":  {2, 5, 6},
	})

	profiles := ProfilePlayers(rows, "erin")
	require.Len(t, profiles, 4, "the user is left out")

	want := []struct {
		player     string
		contrarian int
		rate       float64
		kind       strategy.Kind
	}{
		{"alice", 0, 0, strategy.KindChalk},
		{"bob", 1, 0.125, strategy.KindSlightContrarian},
		{"carol", 2, 0.25, strategy.KindAggressiveContrarian},
		{"dave", 0, 0, strategy.KindChalk},
	}
	for i, w := range want {
		p := profiles[i]
		assert.Equal(t, w.player, p.Player)
		assert.Equal(t, 8, p.Picks)
		assert.Equal(t, 2, p.Weeks)
		assert.Equal(t, w.contrarian, p.ContrarianPicks, w.player)
		assert.InDelta(t, w.rate, p.ContrarianRate, 1e-9, w.player)
		assert.Equal(t, w.kind, p.Kind, w.player)
		assert.Equal(t, w.kind.String(), p.Strategy)
	}
}

func TestProfilePlayersTossupsAreNotContrarian(t *testing.T) {
	rows := []models.PlayerPick{
		{Week: 1, Player: "alice", Team: "Jets", Opponent: "Bills"},
		{Week: 1, Player: "bob", Team: "Bills", Opponent: "Jets"},
		{Week: 1, Player: "bob", Team: "Rams"},
	}
	profiles := ProfilePlayers(rows, "")
	require.Len(t, profiles, 2)
	for _, p := range profiles {
		assert.Zero(t, p.ContrarianPicks, p.Player)
		assert.Equal(t, strategy.KindChalk, p.Kind)
	}
	assert.Equal(t, 2, profiles[1].Picks, "a pick without an opponent still counts")
}

func TestFieldFromHistory(t *testing.T) {
	field, profiles := FieldFromHistory(historyPicks(map[string][]int{
		"bob":   {0},
		"carol": {1, 4},
	}), "Erin")

	assert.Len(t, profiles, 4)
	assert.Equal(t, map[string]int{"Chalk-MaxPoints": 2, "Slight-Contrarian": 1, "Aggressive-Contrarian": 1}, field.Names())
	assert.Equal(t, FieldComposition{
		strategy.KindChalk:                2,
		strategy.KindSlightContrarian:     1,
		strategy.KindAggressiveContrarian: 1,
	}, field)
}

func TestFieldFromHistoryEmpty(t *testing.T) {
	field, profiles := FieldFromHistory(nil, "alice")
	assert.Empty(t, profiles)
	assert.Zero(t, field.Size())

	_, err := field.Scale(31)
	assert.ErrorIs(t, err, models.ErrEmptyField)
}

func TestFieldScale(t *testing.T) {
	tests := []struct {
		name  string
		field FieldComposition
		n     int
		want  FieldComposition
	}{
		{
			name:  "exact multiple",
			field: FieldComposition{strategy.KindChalk: 2, strategy.KindSlightContrarian: 1, strategy.KindAggressiveContrarian: 1},
			n:     8,
			want:  FieldComposition{strategy.KindChalk: 4, strategy.KindSlightContrarian: 2, strategy.KindAggressiveContrarian: 2},
		},
		{
			name:  "largest remainder",
			field: FieldComposition{strategy.KindChalk: 2, strategy.KindSlightContrarian: 1, strategy.KindAggressiveContrarian: 1},
			n:     3,
			want:  FieldComposition{strategy.KindChalk: 1, strategy.KindSlightContrarian: 1, strategy.KindAggressiveContrarian: 1},
		},
		{
			name:  "full league",
			field: FieldComposition{strategy.KindChalk: 17, strategy.KindSlightContrarian: 14, strategy.KindAggressiveContrarian: 1},
			n:     31,
			want:  FieldComposition{strategy.KindChalk: 16, strategy.KindSlightContrarian: 14, strategy.KindAggressiveContrarian: 1},
		},
		{
			name:  "unchanged size",
			field: FieldComposition{strategy.KindChalk: 3},
			n:     3,
			want:  FieldComposition{strategy.KindChalk: 3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.field.Scale(tt.n)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.n, got.Size())
		})
	}
}
