package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Log        LogConfig        `yaml:"log"`
	CORS       CORSConfig       `yaml:"cors"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Pool       PoolConfig       `yaml:"pool"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Phonetic   PhoneticConfig   `yaml:"phonetic"`
	Semantic   SemanticConfig   `yaml:"semantic"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
}

// Default returns the defaults of fields where zero is a valid setting.
// Such fields carry no env-default tag because cleanenv applies tag
// defaults to every field that is still zero after the YAML is decoded.
func Default() Config {
	return Config{
		CORS:       CORSConfig{MaxAge: 86400},
		RateLimit:  RateLimitConfig{RPS: 10},
		Database:   DatabaseConfig{MinConns: 1},
		Classifier: ClassifierConfig{SampleSize: 5},
		Phonetic:   PhoneticConfig{Offset: 23},
		Semantic:   SemanticConfig{Hard: 0.7, Medium: 0.5},
		Embedding:  EmbeddingConfig{CacheSize: 4096},
	}
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Content-Type,X-Request-Id"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"`
}

// RateLimitConfig holds per-IP request limits. Zero RPS disables limiting.
type RateLimitConfig struct {
	RPS             float64       `yaml:"rps"              env:"RATE_LIMIT_RPS"`
	Burst           int           `yaml:"burst"            env:"RATE_LIMIT_BURST"            env-default:"20"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" env:"RATE_LIMIT_CLEANUP_INTERVAL" env-default:"1m"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
// DSN is only required when pools are served from postgres.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// Pool backends.
const (
	PoolBackendFile     = "file"
	PoolBackendPostgres = "postgres"
)

// PoolConfig selects where word pools are read from.
type PoolConfig struct {
	Backend     string `yaml:"backend"      env:"POOL_BACKEND"      env-default:"file"`
	Dir         string `yaml:"dir"          env:"POOL_DIR"          env-default:"./assets"`
	FilePattern string `yaml:"file_pattern" env:"POOL_FILE_PATTERN" env-default:"wordpool_%s.txt"`
	Dedupe      bool   `yaml:"dedupe"       env:"POOL_DEDUPE"       env-default:"false"`
}

// ClassifierConfig holds neighborhood and sampling parameters.
type ClassifierConfig struct {
	Neighbors     int    `yaml:"neighbors"      env:"CLASSIFIER_NEIGHBORS"      env-default:"5"`
	SampleSize    int    `yaml:"sample_size"    env:"CLASSIFIER_SAMPLE_SIZE"`
	DefaultMetric string `yaml:"default_metric" env:"CLASSIFIER_DEFAULT_METRIC" env-default:"phonetic"`
	// Seed for the sampler. Zero seeds from the clock.
	Seed int64 `yaml:"seed" env:"CLASSIFIER_SEED" env-default:"0"`
}

// Phonetic encodings.
const (
	EncodingLetters   = "letters"
	EncodingMetaphone = "metaphone"
)

// PhoneticConfig holds the edit-distance metric and its tier rule.
type PhoneticConfig struct {
	Encoding      string  `yaml:"encoding"   env:"PHONETIC_ENCODING"   env-default:"letters"`
	Scale         float64 `yaml:"scale"      env:"PHONETIC_SCALE"      env-default:"3"`
	Offset        float64 `yaml:"offset"     env:"PHONETIC_OFFSET"`
	ThresholdsRaw string  `yaml:"thresholds" env:"PHONETIC_THRESHOLDS" env-default:"1,2,3"`

	// Thresholds is parsed from ThresholdsRaw during validation.
	Thresholds []float64 `yaml:"-" env:"-"`
}

// SemanticConfig holds the embedding metric tier rule and resolution limits.
type SemanticConfig struct {
	Scale       float64       `yaml:"scale"       env:"SEMANTIC_SCALE"       env-default:"1"`
	Hard        float64       `yaml:"hard"        env:"SEMANTIC_HARD"`
	Medium      float64       `yaml:"medium"      env:"SEMANTIC_MEDIUM"`
	Concurrency int           `yaml:"concurrency" env:"SEMANTIC_CONCURRENCY" env-default:"8"`
	Attempts    int           `yaml:"attempts"    env:"SEMANTIC_ATTEMPTS"    env-default:"3"`
	Timeout     time.Duration `yaml:"timeout"     env:"SEMANTIC_TIMEOUT"     env-default:"5s"`
}

// Embedding providers.
const (
	EmbeddingNgram  = "ngram"
	EmbeddingOpenAI = "openai"
)

// EmbeddingConfig selects and configures the embedding backend.
type EmbeddingConfig struct {
	Provider   string `yaml:"provider"   env:"EMBEDDING_PROVIDER"   env-default:"ngram"`
	BaseURL    string `yaml:"base_url"   env:"EMBEDDING_BASE_URL"`
	APIKey     string `yaml:"api_key"    env:"EMBEDDING_API_KEY"`
	Model      string `yaml:"model"      env:"EMBEDDING_MODEL"      env-default:"text-embedding-3-small"`
	Dimensions int    `yaml:"dimensions" env:"EMBEDDING_DIMENSIONS" env-default:"64"`
	CacheSize  int    `yaml:"cache_size" env:"EMBEDDING_CACHE_SIZE"`
}
