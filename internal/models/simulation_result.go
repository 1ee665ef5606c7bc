package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SimulationResult is a persisted strategy summary for one week.
type SimulationResult struct {
	ID                  uuid.UUID       `db:"id" json:"id"`
	Season              int             `db:"season" json:"season"`
	Week                int             `db:"week" json:"week"`
	Strategy            string          `db:"strategy" json:"strategy"`
	Trials              int             `db:"trials" json:"trials"`
	ExpectedTotalPoints float64         `db:"expected_total_points" json:"expected_total_points"`
	ExpectedWins        float64         `db:"expected_wins" json:"expected_wins"`
	PWinsBonus          float64         `db:"p_wins_bonus" json:"p_wins_bonus"`
	PPointsBonus        float64         `db:"p_points_bonus" json:"p_points_bonus"`
	StdDevTotalPoints   float64         `db:"stdev_total_points" json:"stdev_total_points"`
	FullResults         json.RawMessage `db:"full_results" json:"full_results"`
	CreatedAt           time.Time       `db:"created_at" json:"created_at"`
}
