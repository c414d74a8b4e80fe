package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"ratchetstore/internal/app"
)

var (
	home       string
	passphrase string
	backend    string

	wire *app.Wire
)

func Execute() error {
	root := &cobra.Command{
		Use:   "ratchetstore",
		Short: "Inspect and manage double-ratchet protocol stores",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				home = filepath.Join(dir, ".ratchetstore")
			}
			if err := os.MkdirAll(home, 0o700); err != nil {
				return err
			}

			var err error
			wire, err = app.NewWire(app.Config{
				Backend:    backend,
				Home:       home,
				Passphrase: passphrase,
			})
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if wire == nil {
				return nil
			}
			return wire.Store.Close()
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "data dir (default ~/.ratchetstore)")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase protecting the identity file")
	root.PersistentFlags().StringVar(&backend, "backend", app.BackendFile, "storage backend: file or sqlite")

	root.AddCommand(initCmd(), fingerprintCmd(), sessionsCmd(), prekeysCmd(), trustCmd())
	return root.Execute()
}
