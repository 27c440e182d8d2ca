package store

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the process-wide settings snapshot, loaded once per invocation
// and read-only afterwards. Values come from an optional config.yaml with
// environment overrides for the credential and tuning knobs.
type Config struct {
	LLM struct {
		Model       string  `yaml:"model"`
		Temperature float32 `yaml:"temperature"`
	} `yaml:"llm"`
	News struct {
		LookbackDays int `yaml:"lookback_days"`
		TopK         int `yaml:"top_k"`
	} `yaml:"news"`
	Search struct {
		Count        int    `yaml:"count"`
		Lang         string `yaml:"lang"`
		Region       string `yaml:"region"`
		PreferEquity bool   `yaml:"prefer_equity"`
		UserAgent    string `yaml:"user_agent"`
	} `yaml:"search"`
	Obs struct {
		RunDir string `yaml:"run_dir"`
	} `yaml:"obs"`

	// Environment-only settings, never read from the yaml file.
	GoogleAPIKey string `yaml:"-"`
	UseVertex    bool   `yaml:"-"`
}

func defaultConfig() Config {
	var c Config
	c.LLM.Model = "gemini-2.0-flash"
	c.LLM.Temperature = 0.2
	c.News.LookbackDays = 7
	c.News.TopK = 5
	c.Search.Count = 8
	c.Search.Lang = "en-US"
	c.Search.Region = "US"
	c.Search.PreferEquity = true
	c.Obs.RunDir = "runs"
	return c
}

func (c *Config) Validate() error {
	if c.GoogleAPIKey == "" {
		return errors.New("GOOGLE_API_KEY is empty. Add it to .env")
	}
	if c.UseVertex {
		return errors.New("GOOGLE_GENAI_USE_VERTEXAI is set, but only the Google GenAI API backend is supported. Set it to false")
	}
	if c.LLM.Model == "" {
		return errors.New("llm.model cannot be empty")
	}
	if c.News.LookbackDays <= 0 {
		return fmt.Errorf("news.lookback_days must be positive, got %d", c.News.LookbackDays)
	}
	if c.Search.Count <= 0 {
		return fmt.Errorf("search.count must be positive, got %d", c.Search.Count)
	}
	return nil
}

// LoadConfig loads configuration from the yaml file at path (missing file
// means defaults), then applies environment overrides and validates. An
// invalid configuration is fatal to the caller; there is no retry.
func LoadConfig(path string) (*Config, error) {
	c := defaultConfig()

	if b, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	c.GoogleAPIKey = os.Getenv("GOOGLE_API_KEY")
	c.UseVertex = asBool(os.Getenv("GOOGLE_GENAI_USE_VERTEXAI"), false)
	c.News.LookbackDays = asInt(os.Getenv("NEWS_LOOKBACK_DAYS"), c.News.LookbackDays)
	c.News.TopK = asInt(os.Getenv("NEWS_TOP_K"), c.News.TopK)
	if ua := os.Getenv("USER_AGENT"); ua != "" {
		c.Search.UserAgent = ua
	}

	// Negative top_k means "nothing", not a startup error.
	if c.News.TopK < 0 {
		c.News.TopK = 0
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

func asBool(v string, def bool) bool {
	if v == "" {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

func asInt(v string, def int) int {
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return n
}
