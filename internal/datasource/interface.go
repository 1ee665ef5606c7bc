package datasource

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yourusername/pool-edge/internal/models"
)

// OddsSource yields head-to-head quotes for every game commencing in
// [from, to).
type OddsSource interface {
	FetchQuotes(ctx context.Context, from, to time.Time) ([]models.GameQuotes, error)
	Name() string
}

// Error codes carried by DataSourceError.
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
	ErrCodeUnknown              = "unknown"
)

var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotFound             = errors.New("data not found")
	ErrInvalidData          = errors.New("invalid data format")
	ErrCircuitOpen          = errors.New("circuit breaker open")
)

// DataSourceError tags a failure with the source that produced it and a
// stable code callers can switch on.
type DataSourceError struct {
	Source  string
	Code    string
	Message string
	Err     error
}

func (e DataSourceError) Error() string {
	msg := fmt.Sprintf("%s: %s: %s", e.Source, e.Code, e.Message)
	if e.Err != nil {
		msg += " (" + e.Err.Error() + ")"
	}
	return msg
}

func (e DataSourceError) Unwrap() error { return e.Err }

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{Source: source, Code: code, Message: message, Err: err}
}
