package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"ratchetstore/internal/app"
	"ratchetstore/internal/crypto"
	"ratchetstore/internal/store"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate the local identity and registration id",
		RunE: func(cmd *cobra.Command, args []string) error {
			if backend == app.BackendFile && passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}
			ini, ok := wire.Store.Identities().(store.IdentityInitializer)
			if !ok {
				return fmt.Errorf("backend %q cannot initialize an identity", backend)
			}

			provider := wire.Store.Provider()
			pair, err := crypto.GenerateIdentityKeyPair(provider)
			if err != nil {
				return err
			}
			registrationID, err := crypto.GenerateRegistrationID(provider)
			if err != nil {
				return err
			}
			if err := ini.InitializeIdentity(pair, registrationID); err != nil {
				return err
			}
			fmt.Printf("Identity created.\nRegistration id: %d\nFingerprint: %s\n",
				registrationID, crypto.Fingerprint(pair.Public))
			return nil
		},
	}
}
