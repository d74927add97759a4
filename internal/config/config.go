package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/aaronzipp/chrono-agents/internal/game"
	"github.com/joho/godotenv"
)

// Config holds everything read from the environment
type Config struct {
	Port              string
	Debug             bool
	BaseURL           string
	DiscussionTime    int
	AILeaderDelay     time.Duration
	TickInterval      time.Duration
	ChatRate          float64
	ChatBurst         int
	MemoryEnabled     bool
	AllowStateReplace bool
	SSEBufferSize     int
	SSETimeout        time.Duration
}

// Load reads .env files (if any) and then the environment
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading env file: %w", err)
	}
	return FromEnv()
}

// FromEnv reads the configuration from the process environment only
func FromEnv() (*Config, error) {
	var errs []error
	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		Debug:             os.Getenv("DEBUG") != "",
		DiscussionTime:    getInt("DISCUSSION_TIME", game.DefaultDiscussionTime, &errs),
		AILeaderDelay:     getDuration("AI_LEADER_DELAY", game.AILeaderDelay, &errs),
		TickInterval:      getDuration("TICK_INTERVAL", game.TickInterval, &errs),
		ChatRate:          getFloat("CHAT_RATE", 1, &errs),
		ChatBurst:         getInt("CHAT_BURST", 5, &errs),
		MemoryEnabled:     getBool("MEMORY_ENABLED", false, &errs),
		AllowStateReplace: getBool("ALLOW_STATE_REPLACE", false, &errs),
		SSEBufferSize:     getInt("SSE_BUFFER_SIZE", 10, &errs),
		SSETimeout:        getDuration("SSE_TIMEOUT", time.Second, &errs),
	}
	cfg.BaseURL = getEnv("BASE_URL", "http://localhost:"+cfg.Port)

	if cfg.DiscussionTime < 0 || cfg.DiscussionTime > game.MaxDiscussionTime {
		errs = append(errs, fmt.Errorf("DISCUSSION_TIME: %d out of range 0..%d", cfg.DiscussionTime, game.MaxDiscussionTime))
	}
	if cfg.ChatBurst < 1 {
		errs = append(errs, fmt.Errorf("CHAT_BURST: must be at least 1"))
	}
	if cfg.SSEBufferSize < 0 {
		errs = append(errs, fmt.Errorf("SSE_BUFFER_SIZE: must not be negative"))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getInt(key string, defaultVal int, errs *[]error) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultVal
	}
	return n
}

func getFloat(key string, defaultVal float64, errs *[]error) float64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultVal
	}
	return f
}

func getBool(key string, defaultVal bool, errs *[]error) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultVal
	}
	return b
}

func getDuration(key string, defaultVal time.Duration, errs *[]error) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultVal
	}
	return d
}
