package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"tglogger/internal/app"
	"tglogger/pkg/tglog"
)

func newRenderCmd(_ *rootOptions) *cobra.Command {
	var kindFlag string
	cmd := &cobra.Command{
		Use:   "render [flags] ARGS...",
		Short: "Print the message send would deliver, without sending it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKindFlag(kindFlag)
			if err != nil {
				return err
			}
			values := app.ParseArgs(args)
			text := tglog.FormatPlain(values...)
			if kind != tglog.KindPlain {
				text = tglog.Format(kind, values...)
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
	cmd.Flags().StringVarP(&kindFlag, "kind", "k", string(tglog.KindLog), "Message kind: log, debug, warn, error or plain")
	return cmd
}
