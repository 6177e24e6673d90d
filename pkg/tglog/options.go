package tglog

import (
	"net/http"
	"strings"
	"time"

	"tglogger/pkg/logx"
)

const (
	DefaultAPIURL  = "https://api.telegram.org"
	DefaultTimeout = 10 * time.Second
)

type options struct {
	apiURL         string
	httpClient     *http.Client
	timeout        time.Duration
	log            logx.Logger
	disablePreview bool
	threadID       int
}

// Option customizes a Client.
type Option func(*options)

// WithAPIURL points the client at another Bot API server (self-hosted or a test double).
func WithAPIURL(url string) Option {
	return func(o *options) {
		if u := strings.TrimRight(strings.TrimSpace(url), "/"); u != "" {
			o.apiURL = u
		}
	}
}

// WithHTTPClient replaces the HTTP client. WithTimeout is ignored when set.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithLogger sets the logger for the client's own diagnostics.
func WithLogger(l logx.Logger) Option {
	return func(o *options) { o.log = l }
}

func WithDisablePreview(disable bool) Option {
	return func(o *options) { o.disablePreview = disable }
}

// WithThreadID posts into a forum topic of the destination chat.
func WithThreadID(id int) Option {
	return func(o *options) { o.threadID = id }
}

func defaultOptions() options {
	return options{
		apiURL:  DefaultAPIURL,
		timeout: DefaultTimeout,
		log:     logx.Nop(),
	}
}
