package repository

import (
	"fmt"

	"github.com/yourusername/pool-edge/internal/config"
	"github.com/yourusername/pool-edge/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Standings         StandingsRepository
	SimulationResults SimulationResultRepository
}

// NewRepositories creates the repositories for the configured standings
// source. Simulation results are only persisted when a database is available.
func NewRepositories(cfg *config.Config, db *database.DB) (*Repositories, error) {
	repos := &Repositories{}

	switch cfg.Pool.StandingsSource {
	case "file":
		repos.Standings = NewFileStandingsRepository(cfg.Pool.StandingsFile)
	case "postgres":
		if db == nil {
			return nil, fmt.Errorf("database connection is required for postgres standings")
		}
		repos.Standings = NewPostgresStandingsRepository(db)
	default:
		return nil, fmt.Errorf("unknown standings source: %s", cfg.Pool.StandingsSource)
	}

	if db != nil {
		repos.SimulationResults = NewPostgresSimulationResultRepository(db)
	}
	return repos, nil
}
