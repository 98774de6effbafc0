package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	channelDomain "github.com/reshetovitsme/stream-schedule-feed/internal/modules/channel/domain"
	streamDomain "github.com/reshetovitsme/stream-schedule-feed/internal/modules/stream/domain"
	"github.com/reshetovitsme/stream-schedule-feed/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// ConfigFiles lists the config file names probed, in order, in the working directory
var ConfigFiles = []string{
	"config.yaml",
	"config.yml",
	"config.json",
	"config.toml",
}

type Config struct {
	YouTubeAPIKey     string                     `koanf:"youtube_api_key"`
	YouTubeAPIURL     string                     `koanf:"youtube_api_url"`
	YouTubeFeedURL    string                     `koanf:"youtube_feed_url"`
	GroupKeyword      string                     `koanf:"group_keyword"`
	Channels          []channelDomain.Channel    `koanf:"channels"`
	StoragePath       string                     `koanf:"storage_path"`
	StreamsFile       string                     `koanf:"streams_file"`
	StorageDriver     streamDomain.StorageDriver `koanf:"storage_driver"`
	PendingFile       string                     `koanf:"pending_file"`
	MaxItems          int                        `koanf:"max_items"`
	UploadsPageSize   int                        `koanf:"uploads_page_size"`
	SearchMaxResults  int                        `koanf:"search_max_results"`
	RequestTimeout    int                        `koanf:"request_timeout"`
	RequestsPerSecond float64                    `koanf:"requests_per_second"`
	NotifyURL         string                     `koanf:"notify_url"`
	NotifyInline      bool                       `koanf:"notify_inline"`
	ThumbnailAttempts int                        `koanf:"thumbnail_attempts"`
	ThumbnailInterval int                        `koanf:"thumbnail_interval"`
	TelegramBotToken  string                     `koanf:"telegram_bot_token"`
	TelegramAPIURL    string                     `koanf:"telegram_api_url"`
	TelegramChatIDs   []int64                    `koanf:"-"`
	RedisURL          string                     `koanf:"redis_url"`
	HTTPPort          string                     `koanf:"http_port"`
	PushgatewayURL    string                     `koanf:"pushgateway_url"`
	MetricsTextfile   string                     `koanf:"metrics_textfile"`
	AppEnv            channelDomain.AppEnv       `koanf:"app_env"`
}

func Load() (*Config, error) {
	return LoadFrom(ConfigFiles...)
}

// LoadFrom loads the first existing file among candidates, then applies
// environment overrides and defaults
func LoadFrom(candidates ...string) (*Config, error) {
	k := koanf.New(".")

	configFile, found := lo.Find(candidates, func(file string) bool {
		_, err := os.Stat(file)
		return err == nil
	})

	if found {
		var parser koanf.Parser
		ext := filepath.Ext(configFile)

		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		case ".toml":
			parser = toml.Parser()
		default:
			return nil, oops.Errorf("unsupported config file extension: %s", ext)
		}

		if err := k.Load(file.Provider(configFile), parser); err != nil {
			return nil, oops.With("config_file", configFile).Wrap(err)
		}
	}

	// Environment variables override file values
	if err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(s)
	}), nil); err != nil {
		return nil, oops.With("context", "loading environment variables").Wrap(err)
	}

	defaults := map[string]any{
		"youtube_api_url":     "https://www.googleapis.com/youtube/v3",
		"youtube_feed_url":    "https://www.youtube.com/feeds/videos.xml",
		"group_keyword":       channelDomain.DefaultGroupKeyword,
		"storage_path":        "./data",
		"streams_file":        "streams.json",
		"storage_driver":      "file",
		"pending_file":        "pending_notifications.json",
		"max_items":           500,
		"uploads_page_size":   20,
		"search_max_results":  50,
		"request_timeout":     15,
		"requests_per_second": 5.0,
		"notify_inline":       true,
		"thumbnail_attempts":  6,
		"thumbnail_interval":  10,
		"telegram_api_url":    "https://api.telegram.org",
		"http_port":           "8080",
		"app_env":             "production",
	}
	for key, value := range defaults {
		if !k.Exists(key) {
			k.Set(key, value)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.With("context", "unmarshaling config").Wrap(err)
	}

	if len(cfg.Channels) == 0 {
		cfg.Channels = channelDomain.DefaultRoster()
	}

	// Chat ids arrive either as a list from a config file or as a
	// comma-separated string from the environment
	if chatIDs := k.Get("telegram_chat_ids"); chatIDs != nil {
		switch v := chatIDs.(type) {
		case string:
			cfg.TelegramChatIDs = ParseChatIDs(v)
		case []interface{}:
			cfg.TelegramChatIDs = lo.FilterMap(v, func(item interface{}, _ int) (int64, bool) {
				switch val := item.(type) {
				case int64:
					return val, true
				case int:
					return int64(val), true
				case float64:
					return int64(val), true
				case string:
					ids := ParseChatIDs(val)
					return lo.FirstOrEmpty(ids), len(ids) == 1
				default:
					return 0, false
				}
			})
		}
	}

	if appEnv, err := channelDomain.ParseAppEnv(k.String("app_env")); err == nil {
		cfg.AppEnv = appEnv
	} else {
		cfg.AppEnv = channelDomain.AppEnvProduction
	}

	driver, err := streamDomain.ParseStorageDriver(k.String("storage_driver"))
	if err != nil {
		return nil, oops.With("storage_driver", k.String("storage_driver")).Wrapf(errors.ErrUnsupportedStorage, "%s", err.Error())
	}
	cfg.StorageDriver = driver

	return &cfg, nil
}

// ValidateForUpdate checks the settings a pipeline run cannot start without
func (c *Config) ValidateForUpdate() error {
	if strings.TrimSpace(c.YouTubeAPIKey) == "" {
		return errors.ErrMissingAPIKey
	}
	if len(c.Channels) == 0 {
		return errors.ErrInvalidRoster
	}
	return nil
}

// StreamsPath is the location of the published collection file
func (c *Config) StreamsPath() string {
	return filepath.Join(c.StoragePath, c.StreamsFile)
}

// PendingPath is the notification queue file
func (c *Config) PendingPath() string {
	return filepath.Join(c.StoragePath, c.PendingFile)
}

// SQLitePath is the database used when storage_driver is sqlite
func (c *Config) SQLitePath() string {
	return filepath.Join(c.StoragePath, strings.TrimSuffix(c.StreamsFile, filepath.Ext(c.StreamsFile))+".db")
}

// StatePath returns the file whose changes signal a new published collection
func (c *Config) StatePath() string {
	if c.StorageDriver == streamDomain.StorageDriverSqlite {
		return c.SQLitePath()
	}
	return c.StreamsPath()
}

func (c *Config) RequestTimeoutDuration() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

func (c *Config) ThumbnailIntervalDuration() time.Duration {
	return time.Duration(c.ThumbnailInterval) * time.Second
}

// Summary returns a loggable view of the configuration with secrets redacted
func (c *Config) Summary() []any {
	return []any{
		"youtube_api_key", redact(c.YouTubeAPIKey),
		"group_keyword", c.GroupKeyword,
		"channels", len(c.Channels),
		"storage_driver", c.StorageDriver,
		"state_path", c.StatePath(),
		"max_items", c.MaxItems,
		"notify_url", redact(c.NotifyURL),
		"telegram_chats", len(c.TelegramChatIDs),
		"redis", c.RedisURL != "",
		"app_env", c.AppEnv,
	}
}

// ParseChatIDs parses comma-separated chat IDs string into []int64
func ParseChatIDs(s string) []int64 {
	if s == "" {
		return []int64{}
	}
	parts := strings.Split(s, ",")
	return lo.FilterMap(parts, func(part string, _ int) (int64, bool) {
		part = strings.TrimSpace(part)
		if part == "" {
			return 0, false
		}
		var id int64
		if _, err := fmt.Sscanf(part, "%d", &id); err == nil {
			return id, true
		}
		return 0, false
	})
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:4] + "****"
}
