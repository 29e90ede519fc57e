// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/invowk/opsconsole/internal/config"
	"github.com/invowk/opsconsole/internal/issue"
)

// newConfigCommand creates the `opsconsole config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage opsconsole configuration",
		Long: `Manage opsconsole configuration.

Configuration is read from config.cue in:
  - Linux: ~/.config/opsconsole/
  - macOS: ~/Library/Application Support/opsconsole/
  - Windows: %APPDATA%\opsconsole\
or from the current directory. Every key can be overridden with an
OPSCONSOLE_ environment variable, e.g. OPSCONSOLE_STORE_PATH.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := app.Config.Resolve(cmd.Context(), config.LoadOptions{ConfigFilePath: app.configPath})
			if err != nil {
				return err
			}
			return showConfig(cmd.OutOrStdout(), cfg, path)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configFilePath(app)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configFilePath(app)
			if err != nil {
				return err
			}
			if err := config.CreateDefaultConfig(path, force); err != nil {
				return issue.NewErrorContext().
					WithOperation("create config file").
					WithResource(path).
					WithSuggestion("pass --force to overwrite the existing file").
					Wrap(err).
					BuildError()
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Created %s\n", SuccessStyle.Render(iconOK), path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cfgCmd.AddCommand(initCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Print the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			data, err := config.GenerateCUE(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	})

	return cfgCmd
}

// configFilePath is the --config value, or the default config file path.
func configFilePath(app *App) (string, error) {
	if app.configPath != "" {
		return app.configPath, nil
	}
	return config.DefaultConfigPath()
}

func showConfig(w io.Writer, cfg *config.Config, path string) error {
	storePath, err := cfg.StorePath()
	if err != nil {
		return err
	}

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)
	if path != "" {
		fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("Config file"), path)
	} else {
		fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("log_level"), SuccessStyle.Render(string(cfg.LogLevel)))
	fmt.Fprintf(w, "%s:\n", KeyStyle.Render("store"))
	fmt.Fprintf(w, "  driver: %s\n", SuccessStyle.Render(string(cfg.Store.Driver)))
	fmt.Fprintf(w, "  path: %s\n", SuccessStyle.Render(storePath))
	fmt.Fprintf(w, "%s:\n", KeyStyle.Render("hydrate"))
	concurrency := fmt.Sprintf("%d", cfg.Hydrate.Concurrency)
	if cfg.Hydrate.Concurrency <= 0 {
		concurrency += " (one per CPU)"
	}
	fmt.Fprintf(w, "  concurrency: %s\n", SuccessStyle.Render(concurrency))
	fmt.Fprintf(w, "%s:\n", KeyStyle.Render("output"))
	fmt.Fprintf(w, "  format: %s\n", SuccessStyle.Render(string(cfg.Output.Format)))
	return nil
}
