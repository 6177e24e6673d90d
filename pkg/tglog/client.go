package tglog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	tele "gopkg.in/telebot.v4"

	"tglogger/pkg/logx"
)

// Client sends log messages to one Telegram chat.
//
// The handle returned by New is unvalidated: every send fails with
// ErrNotConnected until Connect succeeds. A failed Connect leaves the client
// unconnected and may be retried. Client is safe for concurrent use.
type Client struct {
	bot    *tele.Bot
	chatID int64
	token  string // masked, for error messages only
	log    logx.Logger

	disablePreview bool
	threadID       int

	mu        sync.RWMutex
	connected bool
	me        *tele.User
	chat      *tele.Chat
}

// New validates the arguments locally and builds an unconnected client.
// It performs no network I/O.
func New(token string, chatID int64, opts ...Option) (*Client, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrEmptyToken
	}
	if chatID == 0 {
		return nil, ErrInvalidChatID
	}

	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	hc := o.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: o.timeout}
	}

	b, err := tele.NewBot(tele.Settings{
		URL:     o.apiURL,
		Token:   token,
		Client:  hc,
		Offline: true,
	})
	if err != nil {
		return nil, fmt.Errorf("tglog: init bot: %w", err)
	}

	return &Client{
		bot:            b,
		chatID:         chatID,
		token:          maskToken(token),
		log:            o.log.With(logx.String("component", componentName)),
		disablePreview: o.disablePreview,
		threadID:       o.threadID,
	}, nil
}

// Dial is New followed by Connect.
func Dial(ctx context.Context, token string, chatID int64, opts ...Option) (*Client, error) {
	c, err := New(token, chatID, opts...)
	if err != nil {
		return nil, err
	}
	if err := c.Connect(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

const componentName = "tglog"

// Connect checks the token with getMe and the destination with getChat.
// Any failure is returned as *ConfigError and leaves the client unconnected.
func (c *Client) Connect(ctx context.Context) error {
	c.setConnected(false, nil, nil)

	if err := ctx.Err(); err != nil {
		return err
	}
	var me tele.User
	if err := await(ctx, func() error { return c.call("getMe", nil, &me) }); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Debug("getMe rejected", logx.Err(err))
		return &ConfigError{Step: "getMe", Token: c.token, ChatID: c.chatID, Err: err}
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	var chat tele.Chat
	params := map[string]string{"chat_id": strconv.FormatInt(c.chatID, 10)}
	if err := await(ctx, func() error { return c.call("getChat", params, &chat) }); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Debug("getChat rejected", logx.Int64("chat_id", c.chatID), logx.Err(err))
		return &ConfigError{Step: "getChat", Token: c.token, ChatID: c.chatID, Err: err}
	}

	c.setConnected(true, &me, &chat)
	c.log.Debug("connected", logx.String("bot", me.Username), logx.Int64("chat_id", c.chatID))
	return nil
}

func (c *Client) setConnected(ok bool, me *tele.User, chat *tele.Chat) {
	c.mu.Lock()
	c.connected = ok
	c.me = me
	c.chat = chat
	c.mu.Unlock()
}

// Connected reports whether the last Connect succeeded.
func (c *Client) Connected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Me returns the bot identity reported by getMe, or nil before Connect.
func (c *Client) Me() *tele.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.me
}

// Chat returns the destination reported by getChat, or nil before Connect.
func (c *Client) Chat() *tele.Chat {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.chat
}

func (c *Client) ChatID() int64 { return c.chatID }

// await runs fn on its own goroutine and returns ctx.Err() as soon as ctx is
// done. telebot calls take no context; an abandoned call finishes in the
// background within the HTTP client timeout.
func await(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)
	go func() { done <- fn() }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// call performs a Bot API method and decodes the "result" field into out.
// The envelope is checked here because telebot treats non-JSON bodies as success.
func (c *Client) call(method string, payload any, out any) error {
	data, err := c.bot.Raw(method, payload)
	if err != nil {
		return err
	}
	var resp struct {
		OK          bool            `json:"ok"`
		ErrorCode   int             `json:"error_code"`
		Description string          `json:"description"`
		Result      json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	if !resp.OK {
		return &tele.Error{Code: resp.ErrorCode, Description: resp.Description}
	}
	if out == nil || len(resp.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Result, out); err != nil {
		return fmt.Errorf("decode %s result: %w", method, err)
	}
	return nil
}

// Log sends an informational message.
func (c *Client) Log(ctx context.Context, args ...any) error {
	return c.send(ctx, KindLog, args)
}

func (c *Client) Debug(ctx context.Context, args ...any) error {
	return c.send(ctx, KindDebug, args)
}

func (c *Client) Warn(ctx context.Context, args ...any) error {
	return c.send(ctx, KindWarn, args)
}

func (c *Client) Error(ctx context.Context, args ...any) error {
	return c.send(ctx, KindError, args)
}

// Plain sends FormatPlain(args) verbatim with HTML parse mode.
func (c *Client) Plain(ctx context.Context, args ...any) error {
	return c.send(ctx, KindPlain, args)
}

// Send is the generic form of Log/Debug/Warn/Error/Plain.
func (c *Client) Send(ctx context.Context, kind Kind, args ...any) error {
	return c.send(ctx, kind, args)
}

// send must be called directly from an exported method so the caller
// frame lands on user code.
func (c *Client) send(ctx context.Context, kind Kind, args []any) error {
	caller := logx.ShortCaller(3)
	fail := func(err error) error {
		return &SendError{Caller: caller, Kind: kind, Args: args, Err: err}
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}
	if !c.Connected() {
		return fail(ErrNotConnected)
	}

	var text string
	if kind == KindPlain {
		text = FormatPlain(args...)
		if strings.TrimSpace(text) == "" {
			return fail(ErrEmptyMessage)
		}
	} else {
		text = Format(kind, args...)
	}

	opts := &tele.SendOptions{
		ParseMode:             tele.ModeHTML,
		DisableWebPagePreview: c.disablePreview,
		ThreadID:              c.threadID,
	}
	var msg *tele.Message
	err := await(ctx, func() (err error) {
		msg, err = c.bot.Send(&tele.Chat{ID: c.chatID}, text, opts)
		return err
	})
	if err != nil {
		c.log.Debug("sendMessage failed", logx.String("kind", string(kind)), logx.String("call_site", caller), logx.Err(err))
		return fail(err)
	}

	if msg != nil {
		c.log.Debug("message sent", logx.String("kind", string(kind)), logx.Int("message_id", msg.ID))
	}
	return nil
}
