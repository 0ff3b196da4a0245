package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"plebai/internal/domain"
)

// send <prompt...>: encrypt a prompt for the agent and publish it.
func sendCmd() *cobra.Command {
	var wait time.Duration
	cmd := &cobra.Command{
		Use:   "send <prompt...>",
		Short: "Encrypt a prompt for the agent and publish it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conv, err := openConversation()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

			// Subscribe first so the first reply is not missed.
			var replies chan string
			if wait > 0 {
				replies = make(chan string, 1)
				sub, err := conv.Subscribe(ctx, printListeners(conv.AgentPublicKey(), out, errOut, replies))
				if err != nil {
					return err
				}
				defer sub.Close()
			}

			results, err := conv.SendPrompt(ctx, strings.Join(args, " "))
			for _, r := range results {
				status := "ok"
				if !r.OK() {
					status = r.Err.Error()
				}
				fmt.Fprintf(errOut, "%s: %s\n", r.Relay, status)
			}
			if err != nil && !(errors.Is(err, domain.ErrPublishRejected) && anyAccepted(results)) {
				return err
			}
			if wait <= 0 {
				fmt.Fprintln(out, "sent")
				return nil
			}

			select {
			case <-replies:
				return nil
			case <-time.After(wait):
				return fmt.Errorf("no reply from the agent within %s", wait)
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	}
	cmd.Flags().DurationVarP(&wait, "wait", "w", 0, "wait this long for the agent's reply")
	return cmd
}

func anyAccepted(results []domain.PublishResult) bool {
	for _, r := range results {
		if r.OK() {
			return true
		}
	}
	return false
}
