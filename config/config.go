package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

// AIProvider configures one text completion backend.
type AIProvider struct {
	Name        string        `mapstructure:"name"`
	APIKey      string        `mapstructure:"apiKey"`
	BaseURL     string        `mapstructure:"baseURL"`
	Model       string        `mapstructure:"model"`
	MaxTokens   int           `mapstructure:"maxTokens"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type Config struct {
	Mode     string `mapstructure:"mode"`
	Dotenv   string `mapstructure:"dotenv"`
	Handlers struct {
		ExternalAPI struct {
			Port string `mapstructure:"port"`
		} `mapstructure:"externalAPI"`
		Prometheus struct {
			Port string `mapstructure:"port"`
		} `mapstructure:"prometheus"`
	} `mapstructure:"handlers"`
	Repositories struct {
		Postgres struct {
			Enabled           bool   `mapstructure:"enabled"`
			Host              string `mapstructure:"host"`
			Password          string `mapstructure:"password"`
			Port              string `mapstructure:"port"`
			Username          string `mapstructure:"username"`
			DB                string `mapstructure:"db"`
			SSLMODE           string `mapstructure:"SSLMODE"`
			MAXCONWAITINGTIME int    `mapstructure:"MAXCONWAITINGTIME"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	Server struct {
		HTTPPort string        `mapstructure:"HTTPPort"`
		Timeout  time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	AI struct {
		// Controller drives itinerary, plan and detailed generation.
		Controller AIProvider `mapstructure:"controller"`
		// Recommendation answers the chat recommendation requests.
		Recommendation AIProvider `mapstructure:"recommendation"`
		Gemini         AIProvider `mapstructure:"gemini"`
		// UseGemini swaps the controller backend for Gemini.
		UseGemini bool `mapstructure:"useGemini"`
	} `mapstructure:"ai"`
	Places struct {
		Provider     string        `mapstructure:"provider"`
		APIKey       string        `mapstructure:"apiKey"`
		NominatimURL string        `mapstructure:"nominatimURL"`
		UserAgent    string        `mapstructure:"userAgent"`
		RateInterval time.Duration `mapstructure:"rateInterval"`
		CacheTTL     time.Duration `mapstructure:"cacheTTL"`
	} `mapstructure:"places"`
	Planner struct {
		MaxTripDays          int `mapstructure:"maxTripDays"`
		MaxActivitiesPerDay  int `mapstructure:"maxActivitiesPerDay"`
		DetailedMaxTokens    int `mapstructure:"detailedMaxTokens"`
		EditHistoryTTLMinute int `mapstructure:"editHistoryTTLMinutes"`
	} `mapstructure:"planner"`
	Sessions struct {
		TTL time.Duration `mapstructure:"ttl"`
	} `mapstructure:"sessions"`
}

// InitConfig reads config.yml from the usual locations, falling back to the
// embedded copy. Environment variables override keys with "." replaced by "_",
// e.g. AI_CONTROLLER_APIKEY.
func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")
	v.AddConfigPath("/usr/local/bin")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	fmt.Println("Successfully loaded app configs...")
	return config, nil
}
