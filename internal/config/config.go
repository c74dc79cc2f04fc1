package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Collaborator providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config is built once at process start and passed by reference; nothing in
// the service reads ambient configuration after that.
type Config struct {
	DataFile    string  `mapstructure:"data_file"`
	HistoryDB   string  `mapstructure:"history_db"`
	Port        int     `mapstructure:"port"`
	Provider    string  `mapstructure:"provider"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`

	// API keys come from the environment only, never the config file.
	OpenAIAPIKey string `mapstructure:"-"`
	GeminiAPIKey string `mapstructure:"-"`
}

func Default() *Config {
	return &Config{
		DataFile:    "feedback.csv",
		HistoryDB:   defaultHistoryDB(),
		Port:        8080,
		Provider:    ProviderOpenAI,
		Temperature: 0.4,
	}
}

func defaultHistoryDB() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "insights.db"
	}
	return filepath.Join(home, ".reviewpulse", "insights.db")
}

// Load builds the configuration: defaults, then an optional YAML file, then
// API keys from the environment. An empty path means "reviewpulse.yaml in the
// working directory, if present".
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = "reviewpulse.yaml"
	}
	if err := loadFile(path, cfg); err != nil {
		if explicit || !os.IsNotExist(err) {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")

	if cfg.Provider != ProviderOpenAI && cfg.Provider != ProviderGemini {
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return err
	}
	return v.Unmarshal(cfg)
}
