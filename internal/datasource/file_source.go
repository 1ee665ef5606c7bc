package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pool-edge/internal/logger"
	"github.com/yourusername/pool-edge/internal/metrics"
	"github.com/yourusername/pool-edge/internal/models"
)

const fileSourceName = "file"

// FileOddsSource reads a saved odds API response from disk
type FileOddsSource struct {
	path   string
	logger *logrus.Entry
}

// NewFileOddsSource creates a file-backed odds source
func NewFileOddsSource(path string, log *logrus.Logger) *FileOddsSource {
	return &FileOddsSource{
		path:   path,
		logger: logger.OrDiscard(log).WithField("source", fileSourceName),
	}
}

// Name returns the name of the odds source
func (s *FileOddsSource) Name() string {
	return fileSourceName
}

// FetchQuotes loads the snapshot and keeps games commencing in [from, to)
func (s *FileOddsSource) FetchQuotes(ctx context.Context, from, to time.Time) ([]models.GameQuotes, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		metrics.RecordOddsRequest(fileSourceName, "error")
		if os.IsNotExist(err) {
			return nil, NewDataSourceError(fileSourceName, ErrCodeNotFound, fmt.Sprintf("snapshot %s not found", s.path), ErrNotFound)
		}
		return nil, NewDataSourceError(fileSourceName, ErrCodeUnknown, "failed to read snapshot", err)
	}

	var events []OddsAPIEvent
	if err := json.Unmarshal(data, &events); err != nil {
		metrics.RecordOddsRequest(fileSourceName, "invalid")
		return nil, NewDataSourceError(fileSourceName, ErrCodeInvalidData, "failed to parse snapshot", err)
	}
	metrics.RecordOddsRequest(fileSourceName, "success")

	quotes := ConvertEvents(events, from, to)
	s.logger.WithFields(logrus.Fields{
		"path":   s.path,
		"events": len(events),
		"games":  len(quotes),
	}).Info("Loaded odds snapshot")
	return quotes, nil
}
