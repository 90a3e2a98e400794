package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store drivers
const (
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

// Question sources
const (
	QuestionsFile  = "file"
	QuestionsMongo = "mongo"
)

// Change timer policies
const (
	ChangeResetsTimer = "reset" // A changed prompt gets the full countdown
	ChangeKeepsTimer  = "keep"  // A changed prompt inherits the remaining time
)

// Rules holds the game constants
type Rules struct {
	TurnTimeout       time.Duration `env:"TURN_TIMEOUT" envDefault:"100s"`
	DareReward        int           `env:"SCORE_DARE" envDefault:"2"`
	TruthReward       int           `env:"SCORE_TRUTH" envDefault:"1"`
	Penalty           int           `env:"PENALTY_NO_ANSWER" envDefault:"-1"`
	MaxChanges        int           `env:"MAX_CHANGES_PER_TURN" envDefault:"2"`
	ChangeTimerPolicy string        `env:"CHANGE_TIMER_POLICY" envDefault:"reset"`
	PickAttempts      int           `env:"PICK_ATTEMPTS" envDefault:"5"`
}

// DefaultRules returns the rules used when nothing is configured
func DefaultRules() Rules {
	return Rules{
		TurnTimeout:       100 * time.Second,
		DareReward:        2,
		TruthReward:       1,
		Penalty:           -1,
		MaxChanges:        2,
		ChangeTimerPolicy: ChangeResetsTimer,
		PickAttempts:      5,
	}
}

// Validate rejects rules the engine cannot play with
func (r Rules) Validate() error {
	if r.TurnTimeout <= 0 {
		return fmt.Errorf("turn timeout must be positive, got %s", r.TurnTimeout)
	}
	if r.MaxChanges < 0 {
		return fmt.Errorf("max changes must not be negative, got %d", r.MaxChanges)
	}
	if r.Penalty >= 0 {
		return fmt.Errorf("penalty must be negative, got %d", r.Penalty)
	}
	if r.DareReward <= 0 || r.TruthReward <= 0 {
		return fmt.Errorf("rewards must be positive")
	}
	if r.PickAttempts < 1 {
		return fmt.Errorf("pick attempts must be at least 1, got %d", r.PickAttempts)
	}
	switch r.ChangeTimerPolicy {
	case ChangeResetsTimer, ChangeKeepsTimer:
	default:
		return fmt.Errorf("unknown change timer policy %q", r.ChangeTimerPolicy)
	}
	return nil
}

// Config is the full process configuration
type Config struct {
	Port           string   `env:"PORT" envDefault:"8080"`
	MongoURI       string   `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDB        string   `env:"MONGO_DB" envDefault:"truthordare"`
	RedisAddr      string   `env:"REDIS_URI" envDefault:"localhost:6379"`
	StoreDriver    string   `env:"STORE_DRIVER" envDefault:"redis"`
	SQLitePath     string   `env:"SQLITE_PATH" envDefault:"state.db"`
	QuestionSource string   `env:"QUESTION_SOURCE" envDefault:"file"`
	QuestionDir    string   `env:"QUESTION_DIR" envDefault:"data"`
	HistoryEnabled bool     `env:"HISTORY_ENABLED" envDefault:"false"`
	OperatorIDs    []string `env:"OPERATOR_IDS" envSeparator:"," envDefault:"operator"`
	OperatorUser   string   `env:"OPERATOR_USERNAME" envDefault:"admin"`
	OperatorPass   string   `env:"OPERATOR_PASSWORD" envDefault:"password123"`
	JWTSecret      string   `env:"JWT_SECRET" envDefault:"super-secret-key-change-in-production"`
	LogLevel       string   `env:"LOG_LEVEL" envDefault:"INFO"`
	LogFormat      string   `env:"LOG_FORMAT" envDefault:"json"`
	OTelEndpoint   string   `env:"OTEL_ENDPOINT"`
	OTelEnabled    bool     `env:"OTEL_ENABLED" envDefault:"true"`
	Rules          Rules
}

// Load parses the environment into a Config and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	// Remove redis:// prefix if present
	cfg.RedisAddr = strings.TrimPrefix(cfg.RedisAddr, "redis://")
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks driver names and game rules
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreRedis, StoreSQLite, StoreMemory:
	default:
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}
	switch c.QuestionSource {
	case QuestionsFile, QuestionsMongo:
	default:
		return fmt.Errorf("unknown question source %q", c.QuestionSource)
	}
	return c.Rules.Validate()
}

// NeedsMongo reports whether any component is backed by MongoDB
func (c *Config) NeedsMongo() bool {
	return c.QuestionSource == QuestionsMongo || c.HistoryEnabled
}

// IsOperator reports whether userID is one of the configured operators
func (c *Config) IsOperator(userID string) bool {
	for _, id := range c.OperatorIDs {
		if strings.TrimSpace(id) == userID && userID != "" {
			return true
		}
	}
	return false
}

// PrimaryOperator is the user id bound to tokens issued by operator login
func (c *Config) PrimaryOperator() string {
	if len(c.OperatorIDs) == 0 {
		return ""
	}
	return strings.TrimSpace(c.OperatorIDs[0])
}
