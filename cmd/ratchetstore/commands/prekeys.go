package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func prekeysCmd() *cobra.Command {
	var signed bool

	cmd := &cobra.Command{
		Use:   "prekeys",
		Short: "Inspect stored pre-keys",
	}

	check := &cobra.Command{
		Use:   "check <id>",
		Short: "Check whether a pre-key id is present",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("bad pre-key id %q: %w", args[0], err)
			}

			var present bool
			if signed {
				present, err = wire.Store.SignedPreKeys().ContainsSignedPreKey(uint32(id))
			} else {
				present, err = wire.Store.PreKeys().ContainsPreKey(uint32(id))
			}
			if err != nil {
				return err
			}
			if present {
				fmt.Printf("Pre-key %d: present\n", id)
			} else {
				fmt.Printf("Pre-key %d: absent\n", id)
			}
			return nil
		},
	}
	check.Flags().BoolVar(&signed, "signed", false, "check the signed pre-key namespace")

	cmd.AddCommand(check)
	return cmd
}
