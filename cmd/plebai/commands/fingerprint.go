package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"plebai/internal/crypto"
	"plebai/internal/keysource"
)

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "whoami",
		Aliases: []string{"fingerprint"},
		Short:   "Print the local public key and its fingerprint",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := appCtx.Settings.Method()
			if err != nil {
				return err
			}
			opts := keysource.Options{Store: appCtx.Secrets, Slot: appCtx.Settings.KeySlot}
			if appCtx.Signer != nil {
				opts.Signer = appCtx.Signer
			}
			ks, err := keysource.New(m, opts)
			if err != nil {
				return err
			}
			pk, err := ks.PublicKey(cmd.Context())
			if err != nil {
				return err
			}
			npub, err := crypto.EncodePublicKey(pk)
			if err != nil {
				return err
			}
			fp, err := crypto.Fingerprint(pk)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Method: %s\nPublic key: %s\nFingerprint: %s\n", m, npub, fp)
			return nil
		},
	}
}
