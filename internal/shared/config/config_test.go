package config

import (
	stdErrors "errors"
	"os"
	"path/filepath"
	"testing"

	channelDomain "github.com/reshetovitsme/stream-schedule-feed/internal/modules/channel/domain"
	streamDomain "github.com/reshetovitsme/stream-schedule-feed/internal/modules/stream/domain"
	"github.com/reshetovitsme/stream-schedule-feed/internal/shared/errors"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"YOUTUBE_API_KEY", "STORAGE_PATH", "STORAGE_DRIVER", "MAX_ITEMS", "NOTIFY_URL",
		"NOTIFY_INLINE", "TELEGRAM_CHAT_IDS", "APP_ENV", "HTTP_PORT", "GROUP_KEYWORD",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.MaxItems != 500 {
		t.Fatalf("MaxItems = %d, want 500", cfg.MaxItems)
	}
	if cfg.StorageDriver != streamDomain.StorageDriverFile {
		t.Fatalf("StorageDriver = %s, want file", cfg.StorageDriver)
	}
	if cfg.StreamsPath() != filepath.Join("data", "streams.json") {
		t.Fatalf("StreamsPath() = %q", cfg.StreamsPath())
	}
	if len(cfg.Channels) != len(channelDomain.DefaultRoster()) {
		t.Fatalf("Channels = %d, want default roster", len(cfg.Channels))
	}
	if cfg.GroupKeyword != channelDomain.DefaultGroupKeyword {
		t.Fatalf("GroupKeyword = %q", cfg.GroupKeyword)
	}
	if !cfg.NotifyInline {
		t.Fatalf("NotifyInline default should be true")
	}
	if cfg.AppEnv != channelDomain.AppEnvProduction {
		t.Fatalf("AppEnv = %s, want production", cfg.AppEnv)
	}
	if err := cfg.ValidateForUpdate(); !stdErrors.Is(err, errors.ErrMissingAPIKey) {
		t.Fatalf("ValidateForUpdate() error = %v, want ErrMissingAPIKey", err)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `youtube_api_key: from-file
max_items: 200
storage_driver: sqlite
storage_path: ` + dir + `
telegram_chat_ids:
  - 100
  - -200
channels:
  - id: UCaaaaaaaaaaaaaaaaaaaaaa
    name: Alpha
    color: "#fff"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	t.Setenv("YOUTUBE_API_KEY", "from-env")
	t.Setenv("APP_ENV", "LOCAL")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.YouTubeAPIKey != "from-env" {
		t.Fatalf("YouTubeAPIKey = %q, env should win", cfg.YouTubeAPIKey)
	}
	if cfg.MaxItems != 200 {
		t.Fatalf("MaxItems = %d, want 200", cfg.MaxItems)
	}
	if cfg.StorageDriver != streamDomain.StorageDriverSqlite {
		t.Fatalf("StorageDriver = %s, want sqlite", cfg.StorageDriver)
	}
	if cfg.StatePath() != filepath.Join(dir, "streams.db") {
		t.Fatalf("StatePath() = %q", cfg.StatePath())
	}
	if len(cfg.Channels) != 1 || cfg.Channels[0].Name != "Alpha" {
		t.Fatalf("Channels = %+v", cfg.Channels)
	}
	if len(cfg.TelegramChatIDs) != 2 || cfg.TelegramChatIDs[1] != -200 {
		t.Fatalf("TelegramChatIDs = %v", cfg.TelegramChatIDs)
	}
	if cfg.AppEnv != channelDomain.AppEnvLocal {
		t.Fatalf("AppEnv = %s, want local", cfg.AppEnv)
	}
	if err := cfg.ValidateForUpdate(); err != nil {
		t.Fatalf("ValidateForUpdate() error = %v", err)
	}
}

func TestLoadRejectsUnknownStorageDriver(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_DRIVER", "postgres")

	_, err := LoadFrom()
	if !stdErrors.Is(err, errors.ErrUnsupportedStorage) {
		t.Fatalf("LoadFrom() error = %v, want ErrUnsupportedStorage", err)
	}
}

func TestParseChatIDs(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []int64
	}{
		{"empty", "", []int64{}},
		{"single", "42", []int64{42}},
		{"list with spaces", "1, -2 ,3", []int64{1, -2, 3}},
		{"skips garbage", "1,abc,,2", []int64{1, 2}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseChatIDs(tc.in)
			if len(got) != len(tc.want) {
				t.Fatalf("ParseChatIDs(%q) = %v, want %v", tc.in, got, tc.want)
			}
			for idx := range got {
				if got[idx] != tc.want[idx] {
					t.Fatalf("ParseChatIDs(%q) = %v, want %v", tc.in, got, tc.want)
				}
			}
		})
	}
}

func TestSummaryRedactsSecrets(t *testing.T) {
	cfg := &Config{YouTubeAPIKey: "AIzaSecretKey", NotifyURL: "https://hooks.example/abc"}
	summary := cfg.Summary()
	for idx := 0; idx+1 < len(summary); idx += 2 {
		if summary[idx] == "youtube_api_key" && summary[idx+1] != "AIza****" {
			t.Fatalf("api key not redacted: %v", summary[idx+1])
		}
	}
}
