package cli

import (
	"github.com/spf13/cobra"

	"tglogger/internal/app"
	"tglogger/pkg/tglog"
)

func newSendCmd(o *rootOptions) *cobra.Command {
	var kindFlag string
	cmd := &cobra.Command{
		Use:   "send [flags] ARGS...",
		Short: "Send one formatted message",
		Long: `Send one message built from ARGS. Arguments that are a JSON object or
array are rendered as structured values, "@name" arguments go to the
mention line and "#tag" arguments to the tag line.`,
		Example: `  tglog send --kind warn "disk almost full" '{"free":"3%"}' "#disk" "@ops"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKindFlag(kindFlag)
			if err != nil {
				return err
			}
			r, _, err := o.connect(cmd)
			if err != nil {
				return err
			}
			defer r.Close()
			return r.Send(cmd.Context(), kind, app.ParseArgs(args)...)
		},
	}
	cmd.Flags().StringVarP(&kindFlag, "kind", "k", string(tglog.KindLog), "Message kind: log, debug, warn, error or plain")
	return cmd
}

func newPlainCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "plain ARGS...",
		Short: "Send ARGS as a message without header or formatting",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, _, err := o.connect(cmd)
			if err != nil {
				return err
			}
			defer r.Close()
			return r.Plain(cmd.Context(), app.ParseArgs(args)...)
		},
	}
}
