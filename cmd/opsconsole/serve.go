// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/invowk/opsconsole/internal/config"
	"github.com/invowk/opsconsole/internal/sshserver"
	"github.com/invowk/opsconsole/internal/store"
	"github.com/invowk/opsconsole/pkg/console"
)

func newServeCommand(app *App) *cobra.Command {
	var (
		consoleName string
		sshCfg      = sshserver.DefaultConfig()
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the pages of a stored console over SSH",
		Long: `Serve the pages of a stored console over SSH until interrupted. Each
session renders the page whose route is the session command:

  ssh -p 2222 ops@127.0.0.1 /docs

Clients log in with the access token as password. A random token is printed
at startup unless --token is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := app.loadConfig(ctx)
			if err != nil {
				return err
			}
			if sshCfg.HostKeyPath == "" {
				dir, err := config.DataDir()
				if err != nil {
					return err
				}
				sshCfg.HostKeyPath = filepath.Join(dir, "ssh_host_ed25519")
			}
			sshCfg.Concurrency = cfg.Hydrate.Concurrency

			// Every session reads the console again so edits are served
			// without a restart.
			source := func(ctx context.Context) (*console.Console, error) {
				var c *console.Console
				err := app.withStore(ctx, func(s store.Store) error {
					var err error
					c, err = s.Get(ctx, consoleName)
					return err
				})
				return c, err
			}
			if _, err := source(ctx); err != nil {
				return err
			}

			srv, err := sshserver.New(sshCfg, source, app.logger)
			if err != nil {
				return err
			}
			if err := srv.Start(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Serving console %s on %s\n", SuccessStyle.Render(iconOK), KeyStyle.Render(consoleName), srv.Address())
			fmt.Fprintf(cmd.OutOrStdout(), "  token: %s\n", srv.Token())

			select {
			case <-ctx.Done():
			case err := <-srv.Err():
				_ = srv.Stop()
				return err
			}
			return srv.Stop()
		},
	}
	cmd.Flags().StringVarP(&consoleName, "console", "c", "", "name of the stored console")
	_ = cmd.MarkFlagRequired("console")
	cmd.Flags().StringVar(&sshCfg.Host, "host", sshCfg.Host, "address to listen on")
	cmd.Flags().IntVarP(&sshCfg.Port, "port", "p", 2222, "port to listen on (0 picks a free port)")
	cmd.Flags().StringVar(&sshCfg.HostKeyPath, "host-key", "", "host key file, generated when missing (default <data dir>/ssh_host_ed25519)")
	cmd.Flags().StringVar(&sshCfg.Token, "token", "", "access token clients log in with")
	return cmd
}
