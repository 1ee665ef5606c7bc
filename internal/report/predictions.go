package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/yourusername/pool-edge/internal/models"
	"github.com/yourusername/pool-edge/internal/scenario"
)

const simulatorVersion = "v2"

// Predictions is the on-disk record of one strategy's card for a week
type Predictions struct {
	Metadata PredictionMetadata `json:"metadata"`
	Games    []PredictedGame    `json:"games"`
}

// PredictionMetadata describes how a predictions file was produced
type PredictionMetadata struct {
	Strategy         string    `json:"strategy"`
	Week             int       `json:"week"`
	GeneratedAt      time.Time `json:"generated_at"`
	TotalGames       int       `json:"total_games"`
	SimulatorVersion string    `json:"simulator_version"`
}

// PredictedGame is one game with the strategy's pick
type PredictedGame struct {
	GameID       string     `json:"game_id"`
	AwayTeam     string     `json:"away_team"`
	HomeTeam     string     `json:"home_team"`
	Favorite     string     `json:"favorite"`
	Dog          string     `json:"dog"`
	FavoriteProb float64    `json:"favorite_prob"`
	CommenceTime *time.Time `json:"commence_time,omitempty"`
	Prediction   Prediction `json:"prediction"`
}

// Prediction is the pick and its confidence. Rank 1 is the most confident.
type Prediction struct {
	PickTeam        string `json:"pick_team"`
	PickIsFavorite  bool   `json:"pick_is_favorite"`
	ConfidenceLevel int    `json:"confidence_level"`
	ConfidenceRank  int    `json:"confidence_rank"`
}

// PredictionsFileName is week_{w}_predictions_{code}.json
func PredictionsFileName(week int, code string) string {
	return fmt.Sprintf("week_%d_predictions_%s.json", week, code)
}

// BuildPredictions lays out an entry against its slate, most confident first
func BuildPredictions(strategyName string, slate models.Slate, entry models.Entry, now time.Time) (*Predictions, error) {
	n := slate.Len()
	if err := models.ValidateEntry(entry, n); err != nil {
		return nil, err
	}
	p := &Predictions{
		Metadata: PredictionMetadata{
			Strategy:         strategyName,
			Week:             slate.Week,
			GeneratedAt:      now,
			TotalGames:       n,
			SimulatorVersion: simulatorVersion,
		},
		Games: make([]PredictedGame, 0, n),
	}
	for i, g := range slate.Games {
		id := g.ID
		if id == "" {
			id = fmt.Sprintf("game_%d", i+1)
		}
		pg := PredictedGame{
			GameID:       id,
			AwayTeam:     g.AwayTeam,
			HomeTeam:     g.HomeTeam,
			Favorite:     g.Favorite,
			Dog:          g.Underdog,
			FavoriteProb: g.PFav,
			Prediction: Prediction{
				PickTeam:        g.PickTeam(entry.Picks[i]),
				PickIsFavorite:  entry.Picks[i],
				ConfidenceLevel: entry.Confidence[i],
				ConfidenceRank:  n - entry.Confidence[i] + 1,
			},
		}
		if !g.CommenceTime.IsZero() {
			t := g.CommenceTime
			pg.CommenceTime = &t
		}
		p.Games = append(p.Games, pg)
	}
	sort.SliceStable(p.Games, func(i, j int) bool {
		return p.Games[i].Prediction.ConfidenceLevel > p.Games[j].Prediction.ConfidenceLevel
	})
	return p, nil
}

// SavePredictions writes p under dir and returns the file path
func SavePredictions(dir, code string, p *Predictions) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode predictions: %w", err)
	}
	path := filepath.Join(dir, PredictionsFileName(p.Metadata.Week, code))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write predictions: %w", err)
	}
	return path, nil
}

// LoadGameProbabilities reads the newest chalk predictions file for week and
// returns both perspectives of every game. It returns an empty map and no
// error when no file exists, leaving the analyzer on 50/50 odds.
func LoadGameProbabilities(dir string, week int) (scenario.GameProbabilities, string, error) {
	pattern := filepath.Join(dir, fmt.Sprintf("week_%d_predictions_chalk*.json", week))
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, "", err
	}
	probs := scenario.GameProbabilities{}
	if len(files) == 0 {
		return probs, "", nil
	}

	latest, latestMod := "", time.Time{}
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			continue
		}
		if latest == "" || info.ModTime().After(latestMod) {
			latest, latestMod = f, info.ModTime()
		}
	}
	if latest == "" {
		return probs, "", nil
	}

	data, err := os.ReadFile(latest)
	if err != nil {
		return probs, latest, fmt.Errorf("failed to read %s: %w", latest, err)
	}
	var p Predictions
	if err := json.Unmarshal(data, &p); err != nil {
		return probs, latest, fmt.Errorf("failed to parse %s: %w", latest, err)
	}
	for _, g := range p.Games {
		if g.Favorite == "" || g.Dog == "" {
			continue
		}
		probs.Set(g.Favorite, g.Dog, g.FavoriteProb)
	}
	return probs, latest, nil
}
