package commands

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"
)

func trustCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trust",
		Short: "Manage trusted peer identity keys",
	}

	save := &cobra.Command{
		Use:   "save <name> <key-hex>",
		Short: "Record a peer's identity key as trusted",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := hex.DecodeString(args[1])
			if err != nil {
				return fmt.Errorf("bad key hex: %w", err)
			}
			if err := wire.Store.Identities().SaveIdentity(args[0], key); err != nil {
				return err
			}
			fmt.Printf("Saved identity for %s\n", args[0])
			return nil
		},
	}

	check := &cobra.Command{
		Use:   "check <name> <key-hex>",
		Short: "Check a peer's identity key against the saved one",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := hex.DecodeString(args[1])
			if err != nil {
				return fmt.Errorf("bad key hex: %w", err)
			}
			trusted, err := wire.Store.Identities().IsTrustedIdentity(args[0], key)
			if err != nil {
				return err
			}
			if trusted {
				fmt.Printf("%s: trusted\n", args[0])
			} else {
				fmt.Printf("%s: NOT trusted (identity changed)\n", args[0])
			}
			return nil
		},
	}

	cmd.AddCommand(save, check)
	return cmd
}
