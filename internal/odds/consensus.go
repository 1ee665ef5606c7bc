package odds

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pool-edge/internal/logger"
	"github.com/yourusername/pool-edge/internal/metrics"
	"github.com/yourusername/pool-edge/internal/models"
)

// Drop reasons reported for book quotes that cannot contribute.
const (
	DropMissingPrice = "missing_price"
	DropDegenerate   = "degenerate"
)

// DefaultSharpBooks are books whose lines are weighted more heavily.
var DefaultSharpBooks = []string{"Pinnacle", "Circa"}

// AggregatorConfig controls how book quotes are combined.
type AggregatorConfig struct {
	SharpBooks  []string
	SharpWeight int
}

// DefaultAggregatorConfig returns the standard sharp-book weighting.
func DefaultAggregatorConfig() AggregatorConfig {
	return AggregatorConfig{
		SharpBooks:  append([]string(nil), DefaultSharpBooks...),
		SharpWeight: 2,
	}
}

// Aggregator builds consensus fair probabilities from many books.
type Aggregator struct {
	cfg    AggregatorConfig
	logger *logger.EngineLogger
}

// NewAggregator creates an aggregator. A sharp weight below 1 is treated as 1.
func NewAggregator(cfg AggregatorConfig, log *logrus.Logger) *Aggregator {
	if cfg.SharpWeight < 1 {
		cfg.SharpWeight = 1
	}
	return &Aggregator{
		cfg:    cfg,
		logger: logger.NewEngineLogger(log),
	}
}

func (a *Aggregator) weightFor(title string) int {
	for _, sharp := range a.cfg.SharpBooks {
		if sharp != "" && strings.Contains(title, sharp) {
			return a.cfg.SharpWeight
		}
	}
	return 1
}

// Consensus returns the median de-vigged home and away probabilities across
// every usable book. ok is false when no book could be used.
func (a *Aggregator) Consensus(quotes models.GameQuotes) (pHome, pAway float64, books int, ok bool) {
	var homes, aways []float64
	for _, book := range quotes.Books {
		if book.HomePrice == nil || book.AwayPrice == nil {
			a.drop(quotes.ID, book.Title, DropMissingPrice)
			continue
		}
		h, w, valid := DevigTwoWay(AmericanToImplied(*book.HomePrice), AmericanToImplied(*book.AwayPrice))
		if !valid {
			a.drop(quotes.ID, book.Title, DropDegenerate)
			continue
		}
		books++
		for i := 0; i < a.weightFor(book.Title); i++ {
			homes = append(homes, h)
			aways = append(aways, w)
		}
	}
	if books == 0 {
		return 0, 0, 0, false
	}

	pHome, pAway, ok = DevigTwoWay(median(homes), median(aways))
	if !ok {
		return 0, 0, 0, false
	}
	return pHome, pAway, books, true
}

func (a *Aggregator) drop(gameID, book, reason string) {
	metrics.RecordBookDropped(reason)
	a.logger.LogBookDropped(gameID, book, reason)
}

// BuildGame converts one game's quotes into a Game. The home team is the
// favorite when the probabilities are equal.
func (a *Aggregator) BuildGame(quotes models.GameQuotes) (models.Game, bool) {
	pHome, pAway, books, ok := a.Consensus(quotes)
	if !ok {
		return models.Game{}, false
	}

	game := models.Game{
		ID:           quotes.ID,
		HomeTeam:     quotes.HomeTeam,
		AwayTeam:     quotes.AwayTeam,
		CommenceTime: quotes.CommenceTime,
		PHome:        pHome,
		PAway:        pAway,
		BookCount:    books,
	}
	if pHome >= pAway {
		game.Favorite, game.Underdog, game.PFav = quotes.HomeTeam, quotes.AwayTeam, pHome
	} else {
		game.Favorite, game.Underdog, game.PFav = quotes.AwayTeam, quotes.HomeTeam, pAway
	}
	return game, true
}

// BuildSlate builds the week's slate, excluding every game without a usable book.
func (a *Aggregator) BuildSlate(week int, quotes []models.GameQuotes) (models.Slate, error) {
	slate := models.Slate{Week: week, Games: make([]models.Game, 0, len(quotes))}
	for _, q := range quotes {
		game, ok := a.BuildGame(q)
		if !ok {
			metrics.RecordGameExcluded()
			a.logger.LogGameExcluded(q.ID, q.HomeTeam, q.AwayTeam, "no usable books")
			continue
		}
		slate.Games = append(slate.Games, game)
	}
	if len(slate.Games) == 0 {
		return slate, fmt.Errorf("week %d: %w", week, models.ErrNoGames)
	}

	a.logger.WithFields(logrus.Fields{
		"week":     week,
		"games":    len(slate.Games),
		"excluded": len(quotes) - len(slate.Games),
	}).Info("Slate built")
	return slate, nil
}
