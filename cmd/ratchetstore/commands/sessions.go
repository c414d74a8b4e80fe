package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func sessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Inspect a peer's device sessions",
	}

	list := &cobra.Command{
		Use:   "list <name>",
		Short: "List device ids with a stored session for a peer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			devices, err := wire.Store.Sessions().SubDeviceSessions(args[0])
			if err != nil {
				return err
			}
			if len(devices) == 0 {
				fmt.Printf("No sessions for %s\n", args[0])
				return nil
			}
			for _, d := range devices {
				fmt.Printf("%s:%d\n", args[0], d)
			}
			return nil
		},
	}

	deleteAll := &cobra.Command{
		Use:   "delete-all <name>",
		Short: "Delete every device session for a peer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := wire.Store.Sessions().DeleteAllSessions(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Removed %d session(s)\n", n)
			return nil
		},
	}

	cmd.AddCommand(list, deleteAll)
	return cmd
}
