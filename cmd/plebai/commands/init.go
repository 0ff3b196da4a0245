package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"plebai/internal/app"
	"plebai/internal/crypto"
	"plebai/internal/domain"
)

func initCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a key and store it for the localstorage method",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := appCtx.ProvisionKey(force)
			if errors.Is(err, app.ErrKeyExists) {
				npub, _ := crypto.EncodePublicKey(id.PublicKey)
				return fmt.Errorf("a key already exists (%s); use --force to replace it", npub)
			}
			if err != nil {
				return err
			}
			npub, err := crypto.EncodePublicKey(id.PublicKey)
			if err != nil {
				return err
			}
			fp, err := crypto.Fingerprint(id.PublicKey)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Key created in %s.\nPublic key: %s\nFingerprint: %s\n", appCtx.Secrets.Path(), npub, fp)
			if m, _ := appCtx.Settings.Method(); m != domain.MethodPersistedLocal {
				fmt.Fprintf(out, "Note: set secret_key_method to %s to use it.\n", domain.MethodPersistedLocal)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "replace an existing key")
	return cmd
}
