package tglog

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"tglogger/pkg/logx"
)

// Sender is the part of Client used by Writer.
type Sender interface {
	Send(ctx context.Context, kind Kind, args ...any) error
}

const (
	defaultWriterTimeout = 5 * time.Second
	maxForwardedMessage  = 3000
)

// WriterConfig controls which events a Writer forwards.
type WriterConfig struct {
	// MinLevel is the lowest forwarded level (default: warn).
	MinLevel string
	// RatePerSec caps forwarded events; the excess is dropped (default: 1).
	RatePerSec int
	// Timeout bounds each forwarded send (default: 5s).
	Timeout time.Duration
}

// Writer is a zerolog.LevelWriter that forwards log events to a chat.
//
// Each forwarded event becomes one message: the event message as text and
// the remaining fields as a structured argument. Writes never fail and never
// block longer than the configured timeout; dropped and failed events are
// counted instead. Events emitted by the client itself are ignored.
type Writer struct {
	sender  Sender
	min     zerolog.Level
	limiter *rate.Limiter
	timeout time.Duration

	sent    atomic.Uint64
	dropped atomic.Uint64
	failed  atomic.Uint64
}

var _ zerolog.LevelWriter = (*Writer)(nil)

func NewWriter(s Sender, cfg WriterConfig) *Writer {
	rps := max(1, cfg.RatePerSec)
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultWriterTimeout
	}
	return &Writer{
		sender:  s,
		min:     logx.ParseLevel(cfg.MinLevel, zerolog.WarnLevel),
		limiter: rate.NewLimiter(rate.Limit(rps), rps),
		timeout: timeout,
	}
}

func (w *Writer) Write(p []byte) (int, error) {
	// Default to info when WriteLevel isn't used.
	return w.WriteLevel(zerolog.InfoLevel, p)
}

func (w *Writer) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if w == nil || w.sender == nil || level < w.min || level >= zerolog.NoLevel {
		return len(p), nil
	}

	args, ok := eventArgs(p)
	if !ok {
		return len(p), nil
	}
	if !w.limiter.Allow() {
		w.dropped.Add(1)
		return len(p), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	if err := w.sender.Send(ctx, KindForLevel(level), args...); err != nil {
		w.failed.Add(1)
		return len(p), nil
	}
	w.sent.Add(1)
	return len(p), nil
}

// WriterStats is a snapshot of a Writer's counters.
type WriterStats struct {
	Sent    uint64
	Dropped uint64
	Failed  uint64
}

func (w *Writer) Stats() WriterStats {
	return WriterStats{Sent: w.sent.Load(), Dropped: w.dropped.Load(), Failed: w.failed.Load()}
}

// eventArgs turns one zerolog JSON line into message arguments.
// It reports false for events that must not be forwarded.
func eventArgs(p []byte) ([]any, bool) {
	p = bytes.TrimSpace(p)
	if len(p) == 0 {
		return nil, false
	}

	var m map[string]any
	if err := json.Unmarshal(p, &m); err != nil {
		// Not JSON; send raw (trimmed), but cap length.
		return []any{logx.Truncate(string(p), maxForwardedMessage)}, true
	}

	// Our own diagnostics would loop back through the chat.
	if comp, _ := m["component"].(string); comp == componentName {
		return nil, false
	}

	msg, _ := m[zerolog.MessageFieldName].(string)
	for _, k := range []string{zerolog.MessageFieldName, zerolog.LevelFieldName, zerolog.TimestampFieldName} {
		delete(m, k)
	}

	args := make([]any, 0, 2)
	if msg = strings.TrimSpace(msg); msg != "" {
		args = append(args, logx.Truncate(msg, maxForwardedMessage))
	}
	if len(m) > 0 {
		args = append(args, m)
	}
	if len(args) == 0 {
		return nil, false
	}
	return args, true
}
