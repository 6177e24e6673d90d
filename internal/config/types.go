package config

// Config is the file-backed configuration of the tglog CLI.
//
// Example (YAML):
//
//	telegram:
//	  token: "123456:ABC..."
//	  chat_id: -1001234567890
//	  timeout: "10s"
//	logging:
//	  level: info
//	  console: true
//	  telegram: { enabled: true, min_level: error, rate_per_sec: 1 }
//	pipe:
//	  kind: warn
//	  heartbeat: "@every 1h"
type Config struct {
	Telegram TelegramConfig `json:"telegram"`
	Logging  LoggingConfig  `json:"logging"`
	Pipe     PipeConfig     `json:"pipe,omitempty"`
}

type TelegramConfig struct {
	Token  string `json:"token" validate:"required"`
	ChatID int64  `json:"chat_id" validate:"required"`
	// ThreadID targets a forum topic (0 = none).
	ThreadID int `json:"thread_id,omitempty" validate:"gte=0"`
	// APIURL overrides https://api.telegram.org (self-hosted Bot API server).
	APIURL string `json:"api_url,omitempty" validate:"omitempty,url"`
	// Timeout is a Go duration string (e.g. "10s").
	Timeout        string `json:"timeout,omitempty"`
	DisablePreview bool   `json:"disable_preview,omitempty"`
}

type LoggingConfig struct {
	Level    string          `json:"level" validate:"omitempty,oneof=trace debug info warn warning error"`
	Console  bool            `json:"console"`
	File     LoggingFile     `json:"file"`
	Telegram LoggingTelegram `json:"telegram"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// LoggingTelegram forwards the CLI's own log events to the chat.
type LoggingTelegram struct {
	Enabled    bool   `json:"enabled"`
	MinLevel   string `json:"min_level" validate:"omitempty,oneof=trace debug info warn warning error"`
	RatePerSec int    `json:"rate_per_sec" validate:"gte=0"`
}

// PipeConfig controls `tglog pipe`.
type PipeConfig struct {
	// Kind is the message kind for piped lines (log, debug, warn, error, plain).
	Kind string `json:"kind,omitempty"`
	// Heartbeat is a cron spec (e.g. "@every 1h", "0 9 * * *"); empty disables it.
	Heartbeat     string `json:"heartbeat,omitempty"`
	HeartbeatText string `json:"heartbeat_text,omitempty"`
}
