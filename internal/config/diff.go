package config

import (
	"tglogger/pkg/logx"
)

// SummarizeChange returns the changed top-level sections and safe structured
// fields for logging (never includes the token).
func SummarizeChange(oldCfg, newCfg *Config) ([]string, []logx.Field) {
	if oldCfg == nil {
		oldCfg = &Config{}
	}
	if newCfg == nil {
		newCfg = &Config{}
	}

	changed := make([]string, 0, 3)
	attrs := make([]logx.Field, 0, 12)

	if TelegramChanged(oldCfg, newCfg) {
		changed = append(changed, "telegram")
		attrs = append(attrs,
			logx.Bool("telegram.token_changed", oldCfg.Telegram.Token != newCfg.Telegram.Token),
			logx.Int64("telegram.chat_id", newCfg.Telegram.ChatID),
			logx.Int("telegram.thread_id", newCfg.Telegram.ThreadID),
			logx.String("telegram.timeout", newCfg.Telegram.Timeout),
		)
	}

	if oldCfg.Logging != newCfg.Logging {
		changed = append(changed, "logging")
		attrs = append(attrs,
			logx.String("logging.level", newCfg.Logging.Level),
			logx.Bool("logging.console", newCfg.Logging.Console),
			logx.Bool("logging.file", newCfg.Logging.File.Enabled),
			logx.Bool("logging.telegram", newCfg.Logging.Telegram.Enabled),
			logx.String("logging.telegram.min_level", newCfg.Logging.Telegram.MinLevel),
		)
	}

	if oldCfg.Pipe != newCfg.Pipe {
		changed = append(changed, "pipe")
		attrs = append(attrs,
			logx.String("pipe.kind", newCfg.Pipe.Kind),
			logx.String("pipe.heartbeat", newCfg.Pipe.Heartbeat),
		)
	}

	return changed, attrs
}

// TelegramChanged reports whether the client must be rebuilt.
func TelegramChanged(oldCfg, newCfg *Config) bool {
	return oldCfg.Telegram != newCfg.Telegram
}
