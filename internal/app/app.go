package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	"tglogger/internal/config"
	"tglogger/pkg/logx"
	"tglogger/pkg/tglog"
)

const applyConnectTimeout = 15 * time.Second

// Runner wires config, logging and the Telegram client for the CLI.
type Runner struct {
	mu     sync.RWMutex
	cfg    *config.Config
	client *tglog.Client

	logs *logx.Service
	root logx.Logger
	log  logx.Logger
	sink *telegramSink

	httpClient *http.Client
	notify     func(state string) (bool, error)
	logOutputs []io.Writer

	hb heartbeat
}

type Option func(*Runner)

// WithHTTPClient sets the HTTP client used for Bot API calls.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Runner) { r.httpClient = c }
}

// WithNotify replaces the systemd notifier (daemon.SdNotify by default).
func WithNotify(fn func(state string) (bool, error)) Option {
	return func(r *Runner) { r.notify = fn }
}

// WithLogOutput adds a destination that receives every local log event.
func WithLogOutput(w io.Writer) Option {
	return func(r *Runner) { r.logOutputs = append(r.logOutputs, w) }
}

// New builds the runner from a validated config. The client is not
// connected yet; call Connect before sending.
func New(cfg *config.Config, opts ...Option) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("app: nil config")
	}
	r := &Runner{
		cfg:    cfg,
		sink:   &telegramSink{},
		notify: func(state string) (bool, error) { return daemon.SdNotify(false, state) },
	}
	for _, o := range opts {
		o(r)
	}

	extra := append([]io.Writer{r.sink}, r.logOutputs...)
	r.logs, r.root = logx.New(logConfig(cfg), extra...)
	r.log = r.root.With(logx.String("component", "app"))

	client, err := r.newClient(cfg)
	if err != nil {
		_ = r.logs.Close()
		return nil, err
	}
	r.client = client
	r.applySink(cfg)
	return r, nil
}

func logConfig(cfg *config.Config) logx.Config {
	lc := cfg.Logging
	return logx.Config{
		Level: lc.Level,
		// Local output is never silently dropped: without a file, keep the console.
		Console: lc.Console || !lc.File.Enabled,
		File:    logx.FileConfig{Enabled: lc.File.Enabled, Path: lc.File.Path},
	}
}

func (r *Runner) newClient(cfg *config.Config) (*tglog.Client, error) {
	timeout, err := cfg.TelegramTimeout()
	if err != nil {
		return nil, err
	}
	opts := []tglog.Option{
		tglog.WithTimeout(timeout),
		tglog.WithLogger(r.root),
		tglog.WithDisablePreview(cfg.Telegram.DisablePreview),
		tglog.WithThreadID(cfg.Telegram.ThreadID),
	}
	if cfg.Telegram.APIURL != "" {
		opts = append(opts, tglog.WithAPIURL(cfg.Telegram.APIURL))
	}
	if r.httpClient != nil {
		opts = append(opts, tglog.WithHTTPClient(r.httpClient))
	}
	return tglog.New(cfg.Telegram.Token, cfg.Telegram.ChatID, opts...)
}

func (r *Runner) applySink(cfg *config.Config) {
	lt := cfg.Logging.Telegram
	if !lt.Enabled {
		r.sink.set(nil)
		return
	}
	r.sink.set(tglog.NewWriter(runnerSender{r}, tglog.WriterConfig{
		MinLevel:   lt.MinLevel,
		RatePerSec: lt.RatePerSec,
	}))
}

// Logger returns the root logger.
func (r *Runner) Logger() logx.Logger { return r.root }

// Client returns the current client. It changes when Apply rebuilds it.
func (r *Runner) Client() *tglog.Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.client
}

// Config returns the config currently in effect.
func (r *Runner) Config() *config.Config {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cfg
}

// Connect validates the token and the chat against the Bot API.
func (r *Runner) Connect(ctx context.Context) error {
	c := r.Client()
	if err := c.Connect(ctx); err != nil {
		return err
	}
	fields := []logx.Field{logx.Int64("chat_id", c.ChatID())}
	if me := c.Me(); me != nil {
		fields = append(fields, logx.String("bot", me.Username))
	}
	if chat := c.Chat(); chat != nil && chat.Title != "" {
		fields = append(fields, logx.String("chat", chat.Title))
	}
	r.log.Info("connected", fields...)
	return nil
}

// Send formats args as a kind message and delivers it.
func (r *Runner) Send(ctx context.Context, kind tglog.Kind, args ...any) error {
	return r.Client().Send(ctx, kind, args...)
}

// Plain delivers args without header or markup.
func (r *Runner) Plain(ctx context.Context, args ...any) error {
	return r.Client().Plain(ctx, args...)
}

// Apply switches to cfg. Logging changes take effect immediately. When the
// telegram section changed a new client is connected first; if that fails
// the previous client stays in use and the error is returned.
func (r *Runner) Apply(ctx context.Context, cfg *config.Config) error {
	if cfg == nil {
		return errors.New("app: nil config")
	}
	old := r.Config()
	sections, attrs := config.SummarizeChange(old, cfg)
	if len(sections) == 0 {
		r.log.Debug("config reload received, but no effective changes detected")
		return nil
	}

	if config.TelegramChanged(old, cfg) {
		client, err := r.newClient(cfg)
		if err == nil {
			cctx, cancel := context.WithTimeout(ctx, applyConnectTimeout)
			err = client.Connect(cctx)
			cancel()
		}
		if err != nil {
			r.log.Warn("telegram config rejected; keeping previous client", logx.Err(err))
			return fmt.Errorf("apply telegram config: %w", err)
		}
		r.mu.Lock()
		r.client = client
		r.mu.Unlock()
	}

	r.mu.Lock()
	r.cfg = cfg
	r.mu.Unlock()

	r.logs.Apply(logConfig(cfg))
	r.applySink(cfg)
	if old.Pipe != cfg.Pipe {
		r.hb.reschedule(r, cfg.Pipe)
	}

	fields := append([]logx.Field{logx.String("changed", strings.Join(sections, ","))}, attrs...)
	r.log.Info("config applied", fields...)
	return nil
}

// Close stops the heartbeat and releases log outputs.
func (r *Runner) Close() error {
	r.hb.stop()
	return r.logs.Close()
}

func (r *Runner) sdNotify(state string) {
	if r.notify == nil {
		return
	}
	if ok, err := r.notify(state); err != nil {
		r.log.Debug("sd_notify failed", logx.String("state", state), logx.Err(err))
	} else if ok {
		r.log.Debug("sd_notify sent", logx.String("state", state))
	}
}

// runnerSender forwards log events through whichever client is current.
type runnerSender struct{ r *Runner }

func (s runnerSender) Send(ctx context.Context, kind tglog.Kind, args ...any) error {
	return s.r.Client().Send(ctx, kind, args...)
}
