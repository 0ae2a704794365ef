package internal

import (
	"fmt"
	"strings"
	"time"
)

const (
	StoreBadger = "badger"
	StoreSQLite = "sqlite"
)

type Config struct {
	Host              string        `env:"HOST,default=0.0.0.0"`
	HTTPPort          int           `env:"HTTP_PORT,default=8080"`
	GRPCPort          int           `env:"GRPC_PORT,default=9090"`
	LogLevel          string        `env:"LOG_LEVEL,required=true"`
	LogFile           string        `env:"LOG_FILE"`
	StoreDriver       string        `env:"STORE_DRIVER,default=badger"`
	BadgerFilepath    string        `env:"BADGER_FILEPATH,default=data/badger"`
	SQLiteFilepath    string        `env:"SQLITE_FILEPATH,default=data/pairchat.db"`
	BlugeFilepath     string        `env:"BLUGE_FILEPATH,default=data/bluge"`
	LimitMessages     *int          `env:"LIMIT_MESSAGES"`
	MaxContentLength  int           `env:"MAX_CONTENT_LENGTH,default=0"`
	CensoredWords     string        `env:"CENSORED_WORDS"`
	CharReplacement   string        `env:"CHARACTER_REPLACEMENT,default=*"`
	AuthSecret        string        `env:"AUTH_SECRET,required=true"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`
	RateLimitRPS      float64       `env:"RATE_LIMIT_RPS,default=0"`
	DebugPort         int           `env:"DEBUG_PORT,default=0"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
	IndexQueueSize    int           `env:"INDEX_QUEUE_SIZE,default=1024"`
}

// Validate checks the values go-env cannot express as tags.
func (c Config) Validate() error {
	switch c.StoreDriver {
	case StoreBadger, StoreSQLite:
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", StoreBadger, StoreSQLite, c.StoreDriver)
	}
	if c.LimitMessages != nil && *c.LimitMessages <= 0 {
		return fmt.Errorf("LIMIT_MESSAGES must be positive, got %d", *c.LimitMessages)
	}
	if c.MaxContentLength < 0 {
		return fmt.Errorf("MAX_CONTENT_LENGTH must not be negative, got %d", c.MaxContentLength)
	}
	if c.IndexQueueSize <= 0 {
		return fmt.Errorf("INDEX_QUEUE_SIZE must be positive, got %d", c.IndexQueueSize)
	}
	if len(c.AuthSecret) < 16 {
		return fmt.Errorf("AUTH_SECRET must hold at least 16 characters")
	}
	_, err := CharacterRune(c.CharReplacement)
	return err
}

// CensoredWordList splits CENSORED_WORDS on commas, dropping blanks.
func (c Config) CensoredWordList() []string {
	var words []string
	for _, w := range strings.Split(c.CensoredWords, ",") {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}
	return words
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
