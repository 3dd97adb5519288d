package leetcode

import (
	"time"

	"github.com/yungbote/leettrack-backend/internal/platform/config"
)

const DefaultBaseURL = "https://alfa-leetcode-api.onrender.com"

type Config struct {
	BaseURL         string        `env:"LEETCODE_API_URL" envDefault:"https://alfa-leetcode-api.onrender.com"`
	Timeout         time.Duration `env:"LEETCODE_TIMEOUT" envDefault:"10s"`
	MaxRetries      int           `env:"LEETCODE_MAX_RETRIES" envDefault:"1"`
	RPS             float64       `env:"LEETCODE_RPS" envDefault:"5"`
	Burst           int           `env:"LEETCODE_BURST" envDefault:"10"`
	SubmissionLimit int           `env:"LEETCODE_SUBMISSION_LIMIT" envDefault:"20"`
}

func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
