package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// Defaults for the secrets overlay.
const (
	DefaultSecretsRegion = "us-east-1"
	DefaultSecretName    = "pool-edge/config"
)

var errNoSecretData = errors.New("no secret data found in AWS Secrets Manager")

// SecretsOverlay is the JSON document stored in AWS Secrets Manager
type SecretsOverlay struct {
	DatabasePassword string `json:"database_password"`
	OddsAPIKey       string `json:"odds_api_key"`
}

// SecretsSettings says whether and where to read the overlay from
type SecretsSettings struct {
	Enabled    bool
	Region     string
	SecretName string
}

// SecretsSettingsFromEnv reads AWS_SECRETS_ENABLED, AWS_REGION and AWS_SECRET_NAME.
func SecretsSettingsFromEnv() SecretsSettings {
	s := SecretsSettings{
		Enabled:    os.Getenv("AWS_SECRETS_ENABLED") == "true",
		Region:     os.Getenv("AWS_REGION"),
		SecretName: os.Getenv("AWS_SECRET_NAME"),
	}
	if s.Region == "" {
		s.Region = DefaultSecretsRegion
	}
	if s.SecretName == "" {
		s.SecretName = DefaultSecretName
	}
	return s
}

func fetchSecretsFromAWS(ctx context.Context, region, secretName string) (*SecretsOverlay, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := secretsmanager.NewFromConfig(awsCfg)
	result, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretName),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get secret %s: %w", secretName, err)
	}

	return parseSecretData(result)
}

func parseSecretData(result *secretsmanager.GetSecretValueOutput) (*SecretsOverlay, error) {
	var raw []byte
	switch {
	case result.SecretString != nil:
		raw = []byte(*result.SecretString)
	case result.SecretBinary != nil:
		raw = result.SecretBinary
	default:
		return nil, errNoSecretData
	}

	var secrets SecretsOverlay
	if err := json.Unmarshal(raw, &secrets); err != nil {
		return nil, fmt.Errorf("failed to parse secret JSON: %w", err)
	}
	return &secrets, nil
}

// overlaySecretsOnConfig applies non-empty secrets over the loaded values
func overlaySecretsOnConfig(cfg *Config, secrets *SecretsOverlay) {
	if secrets.DatabasePassword != "" {
		cfg.Database.Password = secrets.DatabasePassword
	}
	if secrets.OddsAPIKey != "" {
		cfg.OddsAPI.APIKey = secrets.OddsAPIKey
	}
}

// LoadSecretsFromAWS overlays the odds API key and database password from
// AWS Secrets Manager. It does nothing unless settings are enabled.
func LoadSecretsFromAWS(ctx context.Context, cfg *Config, settings SecretsSettings) error {
	if !settings.Enabled {
		return nil
	}
	secrets, err := fetchSecretsFromAWS(ctx, settings.Region, settings.SecretName)
	if err != nil {
		return err
	}
	overlaySecretsOnConfig(cfg, secrets)
	return nil
}
