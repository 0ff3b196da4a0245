package commands

import (
	"github.com/spf13/cobra"
)

// listen: print the conversation with the agent until interrupted.
func listenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listen",
		Short: "Print replies, invoices and status notices from the agent",
		RunE: func(cmd *cobra.Command, args []string) error {
			conv, err := openConversation()
			if err != nil {
				return err
			}
			sub, err := conv.Subscribe(cmd.Context(), printListeners(conv.AgentPublicKey(), cmd.OutOrStdout(), cmd.ErrOrStderr(), nil))
			if err != nil {
				return err
			}
			<-sub.Done()
			return nil
		},
	}
}
