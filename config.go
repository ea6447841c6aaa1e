package mealplanner

import "time"

type ModelConfig struct {
	ModelID     string  `env:"MODEL_ID,required"`
	MaxTokens   int32   `env:"MAX_TOKENS,default=1024"`
	Temperature float32 `env:"TEMPERATURE,default=0.2"`
	TopP        float32 `env:"TOP_P,default=0.9"`
}

type PlannerConfig struct {
	// CatalogPath is a JSON or YAML recipe file. Empty means the built-in catalog.
	CatalogPath        string        `env:"CATALOG_PATH"`
	Extractor          string        `env:"EXTRACTOR,default=keyword"`
	ExtractTimeout     time.Duration `env:"EXTRACT_TIMEOUT,default=30s"`
	MaxSteps           int           `env:"MAX_STEPS,default=16"`
	BaseOllamaEndpoint string        `env:"BASE_OLLAMA_ENDPOINT,default=http://localhost:11434"`

	SessionStore      string        `env:"SESSION_STORE,default=none"`
	SessionSQLitePath string        `env:"SESSION_SQLITE_PATH,default=sessions.db"`
	SessionTTL        time.Duration `env:"SESSION_TTL,default=24h"`
	RedisAddr         string        `env:"REDIS_ADDR,default=localhost:6379"`
	RedisPassword     string        `env:"REDIS_PASSWORD"`
	RedisDB           int           `env:"REDIS_DB,default=0"`

	SlackWebhookURL string `env:"SLACK_WEBHOOK_URL"`
	SlackChannel    string `env:"SLACK_CHANNEL,default=#meal-planning"`
}

// LambdaConfig adds the catalog object location for the serverless entry point.
type LambdaConfig struct {
	CatalogS3Bucket string `env:"CATALOG_S3_BUCKET,required"`
	CatalogS3Key    string `env:"CATALOG_S3_KEY,default=recipes.json"`
}
