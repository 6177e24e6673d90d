package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tglogger/internal/app"
	"tglogger/internal/config"
	"tglogger/pkg/tglog"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// rootOptions holds the persistent flags and the process environment.
type rootOptions struct {
	configPath string
	token      string
	chatID     int64
	logLevel   string

	getenv     func(string) string
	stdin      io.Reader
	runnerOpts []app.Option

	// set by subcommands before loading
	pipeKind string
}

// NewRootCmd creates the tglog command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&rootOptions{getenv: os.Getenv, stdin: os.Stdin})
}

func newRootCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tglog",
		Short: "Send formatted log messages to a Telegram chat",
		Long: `tglog sends log, debug, warn and error messages to a Telegram chat
through a bot. Credentials come from the config file, the TGLOG_TOKEN and
TGLOG_CHAT_ID environment variables, or the flags below (in increasing
priority).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&o.configPath, "config", "", "Path to a JSON or YAML config file")
	pf.StringVar(&o.token, "token", "", "Bot token (overrides config and "+config.EnvToken+")")
	pf.Int64Var(&o.chatID, "chat-id", 0, "Target chat id (overrides config and "+config.EnvChatID+")")
	pf.StringVar(&o.logLevel, "log-level", "", "Local log level: trace, debug, info, warn, error")

	cmd.AddCommand(
		newSendCmd(o),
		newPlainCmd(o),
		newCheckCmd(o),
		newPipeCmd(o),
		newRenderCmd(o),
	)
	return cmd
}

// Execute runs the CLI and returns the process exit code.
func Execute(ctx context.Context) int {
	cmd := NewRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "tglog: %v\n", err)
		return ExitError
	}
	return ExitSuccess
}

// manager builds a config manager that layers env and flags over the file.
func (o *rootOptions) manager(cmd *cobra.Command) *config.Manager {
	chatIDSet := cmd.Flags().Changed("chat-id")
	return config.NewManager(o.configPath, func(cfg *config.Config) error {
		if err := cfg.ApplyEnv(o.getenv); err != nil {
			return err
		}
		if t := strings.TrimSpace(o.token); t != "" {
			cfg.Telegram.Token = t
		}
		if chatIDSet {
			cfg.Telegram.ChatID = o.chatID
		}
		if l := strings.TrimSpace(o.logLevel); l != "" {
			cfg.Logging.Level = l
		}
		if k := strings.TrimSpace(o.pipeKind); k != "" {
			cfg.Pipe.Kind = k
		}
		return nil
	})
}

// connect loads the config and returns a connected runner.
func (o *rootOptions) connect(cmd *cobra.Command) (*app.Runner, *config.Manager, error) {
	m := o.manager(cmd)
	cfg, err := m.Load()
	if err != nil {
		return nil, nil, err
	}
	r, err := app.New(cfg, o.runnerOpts...)
	if err != nil {
		return nil, nil, err
	}
	if err := r.Connect(cmd.Context()); err != nil {
		_ = r.Close()
		return nil, nil, err
	}
	return r, m, nil
}

func parseKindFlag(s string) (tglog.Kind, error) {
	kind, ok := tglog.ParseKind(s)
	if !ok {
		return "", fmt.Errorf("unknown kind %q (want log, debug, warn, error or plain)", s)
	}
	return kind, nil
}
