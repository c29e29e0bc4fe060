package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	AppEnv        string
	HTTPAddr      string
	RedisAddr     string
	RedisPassword string

	GeminiAPIKey string
	LLMModel     string

	// Analysis pipeline knobs. RatePerMinute caps AI calls inside a rolling
	// 60s window; zero or negative is rejected by Validate.
	RatePerMinute   int
	MaxAttempts     int
	BackoffBase     time.Duration
	BackoffMax      time.Duration
	QuotaCooldown   time.Duration
	FetchTimeout    time.Duration
	SettleDelay     time.Duration
	PolitenessDelay time.Duration
	Workers         int
	FetchEngine     string

	MaxTextChars    int
	MaxPromptChars  int
	SnippetMaxChars int
	MaxCategoryLink int

	TaskMaxRetries int
	TaskTimeout    time.Duration
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func fromEnv() Config {
	return Config{
		AppEnv:        getenv("APP_ENV", "development"),
		HTTPAddr:      getenv("HTTP_ADDR", ":8081"),
		RedisAddr:     getenv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		LLMModel:     getenv("LLM_MODEL", "gemini-2.0-flash"),

		RatePerMinute:   getenvInt("RATE_PER_MINUTE", 5),
		MaxAttempts:     getenvInt("MAX_ATTEMPTS", 3),
		BackoffBase:     getenvDuration("BACKOFF_BASE", time.Second),
		BackoffMax:      getenvDuration("BACKOFF_MAX", 60*time.Second),
		QuotaCooldown:   getenvDuration("QUOTA_COOLDOWN", time.Hour),
		FetchTimeout:    getenvDuration("FETCH_TIMEOUT", 30*time.Second),
		SettleDelay:     getenvDuration("SETTLE_DELAY", 2*time.Second),
		PolitenessDelay: getenvDuration("POLITENESS_DELAY", 2*time.Second),
		Workers:         getenvInt("WORKERS", 1),
		FetchEngine:     getenv("FETCH_ENGINE", "browser"),

		MaxTextChars:    getenvInt("MAX_TEXT_CHARS", 10000),
		MaxPromptChars:  getenvInt("MAX_PROMPT_CHARS", 3000),
		SnippetMaxChars: getenvInt("SNIPPET_MAX_CHARS", 500),
		MaxCategoryLink: getenvInt("MAX_CATEGORY_LINKS", 5),

		TaskMaxRetries: getenvInt("TASK_MAX_RETRIES", 3),
		TaskTimeout:    getenvDuration("TASK_TIMEOUT", 30*time.Minute),
	}
}

// Load reads configuration from the environment for the API server, which
// treats missing required variables as fatal.
func Load() Config {
	cfg := fromEnv()
	if cfg.RedisAddr == "" {
		panic(fmt.Errorf("REDIS_ADDR is required"))
	}
	if cfg.GeminiAPIKey == "" {
		panic(fmt.Errorf("GEMINI_API_KEY is required"))
	}
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return cfg
}

// LoadCLI reads the same environment without the server's fatal checks; the
// CLI folds in flags and a batch file before validating.
func LoadCLI() Config {
	return fromEnv()
}

// Validate rejects configurations the pipeline cannot run under.
func (c Config) Validate() error {
	if c.RatePerMinute <= 0 {
		return fmt.Errorf("rate per minute must be positive, got %d", c.RatePerMinute)
	}
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("max attempts must be positive, got %d", c.MaxAttempts)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.FetchEngine != "browser" && c.FetchEngine != "http" {
		return fmt.Errorf("unknown fetch engine %q", c.FetchEngine)
	}
	return nil
}

// BatchFile is the optional YAML run description accepted by the CLI.
// Command-line flags override anything set here.
type BatchFile struct {
	URLs    []string `yaml:"urls"`
	Seed    string   `yaml:"seed"`
	Rate    int      `yaml:"rate"`
	Output  string   `yaml:"output"`
	Workers int      `yaml:"workers"`
	Delay   string   `yaml:"delay"`
	Engine  string   `yaml:"engine"`
	Model   string   `yaml:"model"`
}

// LoadBatchFile parses a YAML batch description from disk.
func LoadBatchFile(path string) (BatchFile, error) {
	var bf BatchFile
	data, err := os.ReadFile(path)
	if err != nil {
		return bf, fmt.Errorf("reading batch file: %w", err)
	}
	if err := yaml.Unmarshal(data, &bf); err != nil {
		return bf, fmt.Errorf("parsing batch file %s: %w", path, err)
	}
	if bf.Delay != "" {
		if _, err := time.ParseDuration(bf.Delay); err != nil {
			return bf, fmt.Errorf("batch file delay %q: %w", bf.Delay, err)
		}
	}
	return bf, nil
}
