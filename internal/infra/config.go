package infra

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/clawhouse/platform/internal/money"
)

// Config holds all process configuration parsed from environment variables.
// Both game servers share one Config; each binary reads its own port field.
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"development"`

	// Server ports
	CrapsPort int `env:"CRABS_PORT" envDefault:"3200"`
	PokerPort int `env:"MOLTEM_PORT" envDefault:"3300"`

	// Operator access. Required: the process refuses to start without it.
	OperatorKey string `env:"OPERATOR_KEY"`

	// Sessions
	JWTSecret string `env:"JWT_SECRET" envDefault:"change-me-in-production"`

	// Ledger
	LedgerPath string `env:"LEDGER_PATH" envDefault:"data/ledger.json"`
	MinDeposit string `env:"MIN_DEPOSIT" envDefault:"10000"`
	MinCashout string `env:"MIN_CASHOUT" envDefault:"10000"`

	// Craps table limits
	CrapsMinBet string `env:"CRAPS_MIN_BET" envDefault:"1000"`
	CrapsMaxBet string `env:"CRAPS_MAX_BET" envDefault:"10000000"`

	// Poker table
	PokerSmallBlind    string        `env:"MOLTEM_SMALL_BLIND" envDefault:"5000"`
	PokerBigBlind      string        `env:"MOLTEM_BIG_BLIND" envDefault:"10000"`
	PokerMinBuyIn      string        `env:"MOLTEM_MIN_BUYIN" envDefault:"200000"`
	PokerMaxBuyIn      string        `env:"MOLTEM_MAX_BUYIN" envDefault:"2000000"`
	PokerMaxSeats      int           `env:"MOLTEM_MAX_SEATS" envDefault:"6"`
	PokerActionTimeout time.Duration `env:"MOLTEM_ACTION_TIMEOUT" envDefault:"30s"`
	PokerNextHandDelay time.Duration `env:"MOLTEM_NEXT_HAND_DELAY" envDefault:"5s"`

	// Kafka journal feed
	KafkaBrokers      string `env:"KAFKA_BROKERS" envDefault:"localhost:9092"`
	KafkaEnabled      bool   `env:"KAFKA_ENABLED" envDefault:"false"`
	KafkaJournalTopic string `env:"KAFKA_JOURNAL_TOPIC" envDefault:"clawhouse.ledger.journal"`

	// CORS
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`

	// Dev
	AllowInsecureDefaults bool `env:"ALLOW_INSECURE_DEFAULTS" envDefault:"false"`
}

// LoadConfig parses environment variables into a Config struct.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks configuration the process must not run without. The
// operator key check is never bypassed; ALLOW_INSECURE_DEFAULTS=true only
// relaxes the JWT secret rules for local dev.
func (c *Config) Validate() error {
	if c.OperatorKey == "" {
		return fmt.Errorf("OPERATOR_KEY is required")
	}

	for name, raw := range map[string]string{
		"MIN_DEPOSIT":        c.MinDeposit,
		"MIN_CASHOUT":        c.MinCashout,
		"CRAPS_MIN_BET":      c.CrapsMinBet,
		"CRAPS_MAX_BET":      c.CrapsMaxBet,
		"MOLTEM_SMALL_BLIND": c.PokerSmallBlind,
		"MOLTEM_BIG_BLIND":   c.PokerBigBlind,
		"MOLTEM_MIN_BUYIN":   c.PokerMinBuyIn,
		"MOLTEM_MAX_BUYIN":   c.PokerMaxBuyIn,
	} {
		if _, err := money.Parse(raw); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	if c.PokerMaxSeats < 2 || c.PokerMaxSeats > 10 {
		return fmt.Errorf("MOLTEM_MAX_SEATS must be between 2 and 10, got %d", c.PokerMaxSeats)
	}

	if c.AllowInsecureDefaults {
		return nil
	}
	if c.JWTSecret == "change-me-in-production" {
		return fmt.Errorf("JWT_SECRET is set to the insecure default; set a strong secret or set ALLOW_INSECURE_DEFAULTS=true for local dev")
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET is too short (%d chars); minimum 32 characters required", len(c.JWTSecret))
	}
	return nil
}

// Amount reads a config field already vetted by Validate.
func (c *Config) Amount(raw string) money.Amount {
	return money.MustParse(raw)
}
