package tglog

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyToken    = errors.New("tglog: bot token is empty")
	ErrInvalidChatID = errors.New("tglog: chat id must be non-zero")
	ErrNotConnected  = errors.New("tglog: client is not connected")
	ErrEmptyMessage  = errors.New("tglog: message text is empty")
)

// ConfigError reports that the Bot API rejected the token or the chat
// during Connect.
type ConfigError struct {
	Step   string // "getMe" or "getChat"
	Token  string // masked
	ChatID int64
	Err    error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("tglog: connect %s failed (token=%s chat_id=%d): %v", e.Step, e.Token, e.ChatID, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// SendError reports a failed log call. Args holds the original arguments.
type SendError struct {
	Caller string
	Kind   Kind
	Args   []any
	Err    error
}

func (e *SendError) Error() string {
	var b strings.Builder
	b.WriteString("tglog: ")
	if e.Caller != "" {
		b.WriteString(e.Caller)
		b.WriteString(": ")
	}
	fmt.Fprintf(&b, "send %s data:%+v: %v", e.Kind, e.Args, e.Err)
	return b.String()
}

func (e *SendError) Unwrap() error { return e.Err }

// maskToken keeps the bot id part of a "<id>:<secret>" token.
func maskToken(token string) string {
	if i := strings.IndexByte(token, ':'); i > 0 {
		return token[:i] + ":***"
	}
	return "***"
}
