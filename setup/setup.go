// Package setup builds the collaborators shared by the planner binaries from
// environment configuration.
package setup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joeshaw/envdecode"

	"mealplanner"
	"mealplanner/extractor/bedrock"
	"mealplanner/extractor/keyword"
	"mealplanner/extractor/ollama"
	"mealplanner/planner"
	"mealplanner/recipes"
	"mealplanner/recipes/remote"
	"mealplanner/recipes/storage"
	"mealplanner/sessions"
)

const (
	ExtractorKeyword = "keyword"
	ExtractorBedrock = "bedrock"
	ExtractorOllama  = "ollama"

	StoreNone   = "none"
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

// PlannerConfig decodes the planner settings from the environment.
func PlannerConfig() (mealplanner.PlannerConfig, error) {
	var cfg mealplanner.PlannerConfig
	if err := envdecode.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode planner config: %w", err)
	}
	return cfg, nil
}

// Extractor builds the configured preference extractor and returns the
// model label used to name session logs.
func Extractor(ctx context.Context, cfg mealplanner.PlannerConfig) (mealplanner.PreferenceExtractor, string, error) {
	switch strings.ToLower(cfg.Extractor) {
	case "", ExtractorKeyword:
		slog.Info("SETUP: Using keyword extractor")
		return keyword.New(), ExtractorKeyword, nil

	case ExtractorBedrock:
		var modelConfig mealplanner.ModelConfig
		if err := envdecode.Decode(&modelConfig); err != nil {
			return nil, "", fmt.Errorf("failed to decode model config: %w", err)
		}
		brc, err := newBedrockRuntimeClient(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create Bedrock client: %w", err)
		}
		slog.Info("SETUP: Using Bedrock extractor", "model", modelConfig.ModelID)
		return bedrock.New(brc, bedrock.Options{
			ModelID:     modelConfig.ModelID,
			MaxTokens:   modelConfig.MaxTokens,
			Temperature: modelConfig.Temperature,
			TopP:        modelConfig.TopP,
		}), modelConfig.ModelID, nil

	case ExtractorOllama:
		var modelConfig mealplanner.ModelConfig
		if err := envdecode.Decode(&modelConfig); err != nil {
			return nil, "", fmt.Errorf("failed to decode model config: %w", err)
		}
		ext, err := ollama.New(ollama.Options{
			BaseEndpoint: cfg.BaseOllamaEndpoint,
			ModelID:      modelConfig.ModelID,
		})
		if err != nil {
			return nil, "", err
		}
		slog.Info("SETUP: Using Ollama extractor", "model", modelConfig.ModelID, "endpoint", cfg.BaseOllamaEndpoint)
		return ext, modelConfig.ModelID, nil

	default:
		return nil, "", fmt.Errorf("unknown extractor %q (want %s, %s or %s)",
			cfg.Extractor, ExtractorKeyword, ExtractorBedrock, ExtractorOllama)
	}
}

func newBedrockRuntimeClient(ctx context.Context) (*bedrockruntime.Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRetryMaxAttempts(5))
	if err != nil {
		return nil, err
	}
	return bedrockruntime.NewFromConfig(awsCfg), nil
}

// LocalCatalog loads path, or returns the built-in catalog when path is empty.
func LocalCatalog(ctx context.Context, path string) (*recipes.Catalog, error) {
	if path == "" {
		c := recipes.Default()
		slog.Info("SETUP: Built-in recipe catalog loaded", "recipes_count", c.Len())
		return c, nil
	}
	c, err := recipes.Load(ctx, storage.NewFileCatalogState(path), recipes.FormatFromPath(path))
	if err != nil {
		return nil, err
	}
	slog.Info("SETUP: Recipe catalog loaded", "path", path, "recipes_count", c.Len())
	return c, nil
}

// S3Catalog loads the catalog object at bucket/key.
func S3Catalog(ctx context.Context, bucket, key string) (*recipes.Catalog, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	state := storage.NewS3CatalogState(s3.NewFromConfig(awsCfg), bucket, key)
	c, err := recipes.Load(ctx, state, recipes.FormatFromPath(key))
	if err != nil {
		return nil, err
	}
	slog.Info("SETUP: Recipe catalog loaded from S3", "bucket", bucket, "key", key, "recipes_count", c.Len())
	return c, nil
}

// Catalog returns a remote catalog when mcpCommand is set and a local one
// otherwise. The returned closer is never nil.
func Catalog(ctx context.Context, cfg mealplanner.PlannerConfig, mcpCommand string) (recipes.Reader, io.Closer, error) {
	if fields := strings.Fields(mcpCommand); len(fields) > 0 {
		c, err := remote.Spawn(ctx, fields[0], fields[1:]...)
		if err != nil {
			return nil, nil, err
		}
		return c, c, nil
	}
	c, err := LocalCatalog(ctx, cfg.CatalogPath)
	if err != nil {
		return nil, nil, err
	}
	return c, nopCloser{}, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Store opens the configured session store. It returns nil for "none".
func Store(ctx context.Context, cfg mealplanner.PlannerConfig) (sessions.Store, error) {
	switch strings.ToLower(cfg.SessionStore) {
	case "", StoreNone:
		return nil, nil
	case StoreSQLite:
		store, err := sessions.OpenSQLite(cfg.SessionSQLitePath)
		if err != nil {
			return nil, err
		}
		slog.Info("SETUP: Using SQLite session store", "path", store.DBPath)
		return store, nil
	case StoreRedis:
		store, err := sessions.NewRedis(ctx, sessions.RedisConfig{
			Address:  cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.SessionTTL,
		})
		if err != nil {
			return nil, err
		}
		slog.Info("SETUP: Using Redis session store", "addr", cfg.RedisAddr)
		return store, nil
	default:
		return nil, fmt.Errorf("unknown session store %q (want %s, %s or %s)",
			cfg.SessionStore, StoreNone, StoreSQLite, StoreRedis)
	}
}

// Workflow assembles planner options from cfg. Extra options apply last.
func Workflow(catalog recipes.Reader, ext mealplanner.PreferenceExtractor, cfg mealplanner.PlannerConfig, logger mealplanner.SessionLogger, store sessions.Store, extra ...planner.Option) (*planner.Workflow, error) {
	var opts []planner.Option
	if logger != nil {
		opts = append(opts, planner.WithLogger(logger))
	}
	if cfg.ExtractTimeout > 0 {
		opts = append(opts, planner.WithExtractTimeout(cfg.ExtractTimeout))
	}
	if cfg.MaxSteps > 0 {
		opts = append(opts, planner.WithMaxSteps(cfg.MaxSteps))
	}
	if store != nil {
		opts = append(opts, planner.WithStore(store))
	}
	return planner.New(catalog, ext, append(opts, extra...)...)
}

// SessionLogger opens a JSON session log under ./logs named after model.
// Cleanup flushes the log and closes the file.
func SessionLogger(model string) (mealplanner.SessionLogger, func() error, error) {
	logFilePath := mealplanner.NewSessionLogFilePath(model)
	if err := os.MkdirAll(filepath.Dir(logFilePath), 0o755); err != nil {
		return nil, func() error { return err }, fmt.Errorf("failed to create log dir: %w", err)
	}
	logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, func() error { return err }, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := mealplanner.NewFileSessionLogger(logFile)
	cleanup := func() error {
		return errors.Join(logger.Flush(), logFile.Close())
	}
	return logger, cleanup, nil
}
