package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the configuration settings for the application.
type Config struct {
	Env         string         // Env is the current environment: local, development, production.
	API         APIConfig      // API describes the backend the client talks to.
	Credentials string         // Credentials is the path of the token file.
	Health      HealthConfig   // Health configures the API liveness probe.
	Monitor     MonitorConfig  // Monitor configures the /healthz and /metrics server.
	Telegram    TelegramConfig // Telegram configures health alerts.
	Locale      string         // Locale selects the message language.
}

// APIConfig holds the backend connection settings.
type APIConfig struct {
	URL     string        // URL is the backend base URL.
	Root    string        // Root is the prefix used for rewriting and for the 404 fallback.
	Rewrite bool          // Rewrite prefixes relative paths with Root; when off, /x is tried before Root/x.
	Timeout time.Duration // Timeout bounds every request.
}

// HealthConfig holds the probe settings.
type HealthConfig struct {
	Interval time.Duration // Interval is the time between probes.
}

// MonitorConfig holds the monitoring server settings. A zero port disables it.
type MonitorConfig struct {
	Port int
}

// TelegramConfig holds the alert bot settings. An empty token disables alerts.
type TelegramConfig struct {
	Token   string
	ChatIDs []int64
}

// Enabled reports whether alerts can be sent.
func (t TelegramConfig) Enabled() bool {
	return t.Token != "" && len(t.ChatIDs) > 0
}

const envPrefix = "ZYNOR"

// MustLoad reads an optional .env file, then an optional YAML file at
// CONFIG_PATH, then ZYNOR_* environment variables, and panics on invalid values.
func MustLoad() *Config {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	mustBind(v, "api.url", "ZYNOR_API_URL", "NEXT_PUBLIC_API_URL")
	mustBind(v, "credentials.path", "ZYNOR_CREDENTIALS_PATH")
	mustBind(v, "locale", "ZYNOR_LOCALE", "LANG")

	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			panic("config file does not exist: " + configPath)
		}
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			panic("config error: " + err.Error())
		}
	}

	return &Config{
		Env: v.GetString("env"),
		API: APIConfig{
			URL:     v.GetString("api.url"),
			Root:    v.GetString("api.root"),
			Rewrite: v.GetBool("api.rewrite"),
			Timeout: mustDuration(v, "api.timeout"),
		},
		Credentials: v.GetString("credentials.path"),
		Health: HealthConfig{
			Interval: mustDuration(v, "health.interval"),
		},
		Monitor: MonitorConfig{
			Port: v.GetInt("monitor.port"),
		},
		Telegram: TelegramConfig{
			Token:   v.GetString("telegram.token"),
			ChatIDs: mustChatIDs(v),
		},
		Locale: v.GetString("locale"),
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "production")
	v.SetDefault("api.url", "http://localhost:8000")
	v.SetDefault("api.root", "/api")
	v.SetDefault("api.rewrite", true)
	v.SetDefault("api.timeout", "10s")
	v.SetDefault("credentials.path", defaultCredentialsPath())
	v.SetDefault("health.interval", "10s")
	v.SetDefault("monitor.port", 0)
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.chat_ids", "")
	v.SetDefault("locale", "en")
}

// defaultCredentialsPath is ~/.zynor/credentials.json, or a relative path
// when the home directory is unknown.
func defaultCredentialsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".zynor", "credentials.json")
	}
	return filepath.Join(home, ".zynor", "credentials.json")
}

func mustBind(v *viper.Viper, key string, envs ...string) {
	if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
		panic("config error: " + err.Error())
	}
}

func mustDuration(v *viper.Viper, key string) time.Duration {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil || d <= 0 {
		panic(fmt.Sprintf("failed to parse %s from configuration", key))
	}
	return d
}

// mustChatIDs accepts a YAML list or a comma separated string.
func mustChatIDs(v *viper.Viper) []int64 {
	var parts []string
	switch raw := v.Get("telegram.chat_ids").(type) {
	case string:
		parts = strings.Split(raw, ",")
	case []any:
		for _, item := range raw {
			parts = append(parts, fmt.Sprint(item))
		}
	default:
		parts = v.GetStringSlice("telegram.chat_ids")
	}

	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			panic("failed to parse telegram.chat_ids from configuration")
		}
		ids = append(ids, id)
	}
	return ids
}
