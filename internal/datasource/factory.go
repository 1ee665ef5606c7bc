package datasource

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pool-edge/internal/config"
)

// SourceType represents the type of odds source
type SourceType string

const (
	// OddsAPISourceType fetches live quotes over HTTP
	OddsAPISourceType SourceType = "odds_api"
	// FileSourceType reads a saved response from disk
	FileSourceType SourceType = "file"
)

// Factory creates OddsSource implementations based on configuration
type Factory struct {
	logger *logrus.Logger
	config *config.Config
}

// NewFactory creates a new odds source factory
func NewFactory(cfg *config.Config, logger *logrus.Logger) *Factory {
	return &Factory{
		logger: logger,
		config: cfg,
	}
}

// SourceType picks the file source when a snapshot is configured
func (f *Factory) SourceType() SourceType {
	if f.config.OddsAPI.SnapshotFile != "" {
		return FileSourceType
	}
	return OddsAPISourceType
}

// NewOddsSource creates the configured source wrapped in a TTL cache
func (f *Factory) NewOddsSource() (OddsSource, error) {
	if f.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	cfg := f.config.OddsAPI

	var source OddsSource
	switch f.SourceType() {
	case FileSourceType:
		source = NewFileOddsSource(cfg.SnapshotFile, f.logger)
	case OddsAPISourceType:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("odds API key is required")
		}
		client := NewRateLimitedHTTPClient(HTTPClientConfigFrom(cfg), f.logger)
		source = NewOddsAPIClient(client, cfg, f.logger)
	default:
		return nil, fmt.Errorf("unknown odds source type: %s", f.SourceType())
	}

	if cfg.CacheTTLSeconds > 0 {
		source = NewCachedOddsSource(source, time.Duration(cfg.CacheTTLSeconds)*time.Second)
	}
	if f.logger != nil {
		f.logger.WithField("source", source.Name()).Info("Created odds source")
	}
	return source, nil
}
