package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the bot token and the target chat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, _, err := o.connect(cmd)
			if err != nil {
				return err
			}
			defer r.Close()

			c := r.Client()
			out := cmd.OutOrStdout()
			if me := c.Me(); me != nil {
				fmt.Fprintf(out, "bot:  @%s (id %d)\n", me.Username, me.ID)
			}
			title := ""
			if chat := c.Chat(); chat != nil {
				title = chat.Title
				if title == "" {
					title = chat.Username
				}
			}
			fmt.Fprintf(out, "chat: %s (id %d)\n", title, c.ChatID())
			return nil
		},
	}
}
