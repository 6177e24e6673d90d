package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"

	"tglogger/pkg/tglog"
)

// Environment variables read by ApplyEnv.
const (
	EnvToken  = "TGLOG_TOKEN"
	EnvChatID = "TGLOG_CHAT_ID"
	EnvAPIURL = "TGLOG_API_URL"
)

const (
	DefaultLevel         = "info"
	DefaultHeartbeatText = "tglog heartbeat"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ApplyEnv overlays non-empty environment values on cfg.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := strings.TrimSpace(getenv(EnvToken)); v != "" {
		c.Telegram.Token = v
	}
	if v := strings.TrimSpace(getenv(EnvChatID)); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: invalid chat id %q: %w", EnvChatID, v, err)
		}
		c.Telegram.ChatID = id
	}
	if v := strings.TrimSpace(getenv(EnvAPIURL)); v != "" {
		c.Telegram.APIURL = v
	}
	return nil
}

// Normalize trims values and fills defaults for omitted fields.
func (c *Config) Normalize() {
	c.Telegram.Token = strings.TrimSpace(c.Telegram.Token)
	c.Telegram.APIURL = strings.TrimSpace(c.Telegram.APIURL)

	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLevel
	}
	c.Logging.Telegram.MinLevel = strings.ToLower(strings.TrimSpace(c.Logging.Telegram.MinLevel))

	c.Pipe.Kind = strings.ToLower(strings.TrimSpace(c.Pipe.Kind))
	if c.Pipe.Kind == "" {
		c.Pipe.Kind = string(tglog.KindLog)
	}
	c.Pipe.Heartbeat = strings.TrimSpace(c.Pipe.Heartbeat)
	if c.Pipe.HeartbeatText == "" {
		c.Pipe.HeartbeatText = DefaultHeartbeatText
	}
}

// Validate checks struct constraints and the fields that need parsing.
func Validate(c *Config) error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.TelegramTimeout(); err != nil {
		return err
	}
	if _, ok := tglog.ParseKind(c.Pipe.Kind); !ok {
		return fmt.Errorf("pipe.kind: unknown kind %q", c.Pipe.Kind)
	}
	if c.Pipe.Heartbeat != "" {
		if _, err := cron.ParseStandard(c.Pipe.Heartbeat); err != nil {
			return fmt.Errorf("pipe.heartbeat: invalid schedule %q: %w", c.Pipe.Heartbeat, err)
		}
	}
	return nil
}

// TelegramTimeout returns telegram.timeout, defaulting to tglog.DefaultTimeout.
func (c *Config) TelegramTimeout() (time.Duration, error) {
	return ParseDurationOrDefault("telegram.timeout", c.Telegram.Timeout, tglog.DefaultTimeout)
}

func ParseDurationField(path, raw string) (time.Duration, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", path, raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: duration must be >= 0", path)
	}
	return d, nil
}

func ParseDurationOrDefault(path, raw string, def time.Duration) (time.Duration, error) {
	d, err := ParseDurationField(path, raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return def, nil
	}
	return d, nil
}
