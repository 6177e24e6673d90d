package app

import (
	"sync/atomic"

	"github.com/rs/zerolog"

	"tglogger/pkg/tglog"
)

// telegramSink is the log output slot for the Telegram writer. logx keeps
// its writer list for the lifetime of the service, so reloads swap the
// writer behind the slot instead. An empty slot discards events.
type telegramSink struct {
	w atomic.Pointer[tglog.Writer]
}

var _ zerolog.LevelWriter = (*telegramSink)(nil)

func (s *telegramSink) set(w *tglog.Writer) { s.w.Store(w) }

func (s *telegramSink) writer() *tglog.Writer { return s.w.Load() }

func (s *telegramSink) Write(p []byte) (int, error) {
	if w := s.w.Load(); w != nil {
		return w.Write(p)
	}
	return len(p), nil
}

func (s *telegramSink) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if w := s.w.Load(); w != nil {
		return w.WriteLevel(level, p)
	}
	return len(p), nil
}
