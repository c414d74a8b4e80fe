package commands

import (
	"fmt"
	"os"

	qrterminal "github.com/mdp/qrterminal/v3"
	"github.com/spf13/cobra"

	"ratchetstore/internal/crypto"
)

func fingerprintCmd() *cobra.Command {
	var asQR bool

	cmd := &cobra.Command{
		Use:   "fingerprint",
		Short: "Print the local identity fingerprint",
		RunE: func(cmd *cobra.Command, args []string) error {
			pair, err := wire.Store.Identities().IdentityKeyPair()
			if err != nil {
				return err
			}
			fp := crypto.Fingerprint(pair.Public)
			if asQR {
				qrterminal.GenerateWithConfig(fp, qrterminal.Config{
					Level:     qrterminal.L,
					Writer:    os.Stdout,
					BlackChar: qrterminal.BLACK,
					WhiteChar: qrterminal.WHITE,
				})
				return nil
			}
			fmt.Printf("Fingerprint: %s\n", fp)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asQR, "qr", false, "render the fingerprint as a QR code")
	return cmd
}
