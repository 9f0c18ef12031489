package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Logger   LoggerConfig
	LLM      LLMConfig
	Redis    RedisConfig
	DB       DBConfig
	JWT      JWTConfig
	Quiz     QuizConfig
	Alert    AlertConfig
	Notifier NotifierConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LoggerConfig struct {
	Level string `yaml:"level"`
	Env   string `yaml:"env"`
}

// LLMConfig selects the question source. Provider is one of "gemini", "ollama" or "openai".
type LLMConfig struct {
	Provider  string
	Model     string
	APIKey    string
	ServerURL string
	Timeout   time.Duration
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

type JWTConfig struct {
	SecretKey string
	AlertTTL  time.Duration
}

type QuizConfig struct {
	PassThreshold float64
	HistoryTTL    time.Duration
	HistoryFile   string
}

// Location is a latitude/longitude pair used for fallback alert locations.
type Location struct {
	Lat float64
	Lng float64
}

type AlertConfig struct {
	PasscodeTimeout   time.Duration
	RepeatInterval    time.Duration
	RetryAttempts     int
	RetryDelay        time.Duration
	SessionTTL        time.Duration
	Recipients        []string
	FallbackLocations []Location
}

// NotifierConfig chooses how alerts leave the process. Kind is "log" or "telegram".
type NotifierConfig struct {
	Kind          string
	TelegramToken string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", "20s")
	v.SetDefault("server.write_timeout", "20s")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.env", "development")

	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.model", "gemini-2.5-flash")
	v.SetDefault("llm.server_url", "http://localhost:11434")
	v.SetDefault("llm.timeout", "60s")

	v.SetDefault("db.port", 1521)

	v.SetDefault("jwt.alert_ttl", "12h")

	v.SetDefault("quiz.pass_threshold", 60.0)
	v.SetDefault("quiz.history_ttl", "24h")
	v.SetDefault("quiz.history_file", "session_history.json")

	v.SetDefault("alert.passcode_timeout", "10s")
	v.SetDefault("alert.repeat_interval", "20s")
	v.SetDefault("alert.retry_attempts", 3)
	v.SetDefault("alert.retry_delay", "5s")
	v.SetDefault("alert.session_ttl", "12h")
	v.SetDefault("alert.fallback_locations", []string{
		"12.939443,77.545355",
		"12.939626,77.545125",
		"12.939145,77.545361",
		"12.939828,77.545380",
	})

	v.SetDefault("notifier.kind", "log")
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Add config paths based on environment
	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../config")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", absPath)
	}

	locations, err := parseLocations(v.GetStringSlice("alert.fallback_locations"))
	if err != nil {
		return nil, err
	}

	config := &Config{
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
		},
		Logger: LoggerConfig{
			Level: v.GetString("logger.level"),
			Env:   v.GetString("logger.env"),
		},
		LLM: LLMConfig{
			Provider:  strings.ToLower(v.GetString("llm.provider")),
			Model:     v.GetString("llm.model"),
			APIKey:    v.GetString("llm.api_key"),
			ServerURL: v.GetString("llm.server_url"),
			Timeout:   v.GetDuration("llm.timeout"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		DB: DBConfig{
			Host:     v.GetString("db.host"),
			Port:     v.GetInt("db.port"),
			User:     v.GetString("db.user"),
			Password: v.GetString("db.password"),
			DBName:   v.GetString("db.name"),
		},
		JWT: JWTConfig{
			SecretKey: v.GetString("jwt.secret_key"),
			AlertTTL:  v.GetDuration("jwt.alert_ttl"),
		},
		Quiz: QuizConfig{
			PassThreshold: v.GetFloat64("quiz.pass_threshold"),
			HistoryTTL:    v.GetDuration("quiz.history_ttl"),
			HistoryFile:   v.GetString("quiz.history_file"),
		},
		Alert: AlertConfig{
			PasscodeTimeout:   v.GetDuration("alert.passcode_timeout"),
			RepeatInterval:    v.GetDuration("alert.repeat_interval"),
			RetryAttempts:     v.GetInt("alert.retry_attempts"),
			RetryDelay:        v.GetDuration("alert.retry_delay"),
			SessionTTL:        v.GetDuration("alert.session_ttl"),
			Recipients:        v.GetStringSlice("alert.recipients"),
			FallbackLocations: locations,
		},
		Notifier: NotifierConfig{
			Kind:          strings.ToLower(v.GetString("notifier.kind")),
			TelegramToken: v.GetString("notifier.telegram_token"),
		},
	}

	// Well-known provider variables win over the generic ones.
	if key := os.Getenv("GEMINI_API_KEY"); key != "" && config.LLM.Provider == "gemini" {
		config.LLM.APIKey = key
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" && config.LLM.Provider == "openai" {
		config.LLM.APIKey = key
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		config.JWT.SecretKey = secret
	}
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		config.Notifier.TelegramToken = token
	}
	if recipients := os.Getenv("ALERT_RECIPIENTS"); recipients != "" {
		config.Alert.Recipients = splitList(recipients)
	}

	return config, nil
}

// GetDSN returns the go-ora connection URL, or "" when no database host is configured.
func (c *Config) GetDSN() string {
	if c.DB.Host == "" {
		return ""
	}
	return fmt.Sprintf("oracle://%s:%s@%s:%d/%s",
		c.DB.User,
		c.DB.Password,
		c.DB.Host,
		c.DB.Port,
		c.DB.DBName,
	)
}

func parseLocations(raw []string) ([]Location, error) {
	locations := make([]Location, 0, len(raw))
	for _, entry := range raw {
		parts := strings.Split(entry, ",")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid fallback location %q: want \"lat,lng\"", entry)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid latitude in %q: %w", entry, err)
		}
		lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid longitude in %q: %w", entry, err)
		}
		locations = append(locations, Location{Lat: lat, Lng: lng})
	}
	return locations, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
