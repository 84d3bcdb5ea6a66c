package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	content := `
scraper:
  base_url: "https://example.com/"
  headless: true
  timeout: 90s
storage:
  backend: redis
  redis:
    addr: "localhost:6379"
    db: 2
telegram:
  bot_token: "123:abc"
  chat_id: -100200300
logging:
  level: debug
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Scraper.BaseURL != "https://example.com/" {
		t.Errorf("base_url: got %q", cfg.Scraper.BaseURL)
	}
	if !cfg.Scraper.Headless {
		t.Error("headless: expected true")
	}
	if cfg.Scraper.Timeout != 90*time.Second {
		t.Errorf("timeout: got %v", cfg.Scraper.Timeout)
	}
	if cfg.Storage.Backend != "redis" || cfg.Storage.Redis.Addr != "localhost:6379" || cfg.Storage.Redis.DB != 2 {
		t.Errorf("storage: got %+v", cfg.Storage)
	}
	if cfg.Telegram.BotToken != "123:abc" || cfg.Telegram.ChatID != -100200300 {
		t.Errorf("telegram: got %+v", cfg.Telegram)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("logging level: got %q", cfg.Logging.Level)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}
