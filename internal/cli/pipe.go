package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

const watchStopTimeout = 2 * time.Second

func newPipeCmd(o *rootOptions) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "pipe",
		Short: "Forward every line read from stdin as a message",
		Long: `Forward every non-empty line of stdin as one message until EOF.
Lines holding a JSON object or array are sent as structured values and
leading "@name" / "#tag" tokens go to the mention and tag lines. A line
that cannot be delivered is logged and skipped.`,
		Example: `  journalctl -f -u backup | tglog pipe --kind error --watch --config /etc/tglog.yaml`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if o.pipeKind != "" {
				if _, err := parseKindFlag(o.pipeKind); err != nil {
					return err
				}
			}
			if watch && strings.TrimSpace(o.configPath) == "" {
				return errors.New("--watch requires --config")
			}

			r, m, err := o.connect(cmd)
			if err != nil {
				return err
			}
			defer r.Close()

			if watch {
				stop := r.Watch(cmd.Context(), m)
				defer func() {
					ctx, cancel := context.WithTimeout(context.Background(), watchStopTimeout)
					defer cancel()
					_ = stop(ctx)
				}()
			}

			st, err := r.Pipe(cmd.Context(), o.stdin)
			fmt.Fprintf(cmd.ErrOrStderr(), "tglog: %d lines, %d sent, %d failed\n", st.Lines, st.Sent, st.Failed)
			if err != nil && cmd.Context().Err() == nil {
				return err
			}
			if st.Failed > 0 {
				return fmt.Errorf("%d of %d lines not delivered", st.Failed, st.Lines)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&o.pipeKind, "kind", "k", "", "Message kind for every line (default from config, else log)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Reload the config file when it changes")
	return cmd
}
