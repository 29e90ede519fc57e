// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newTypesCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the widget and provider types that can be hydrated",
		Long: `List every registered source locator with the widget and provider types it
exports. A console's dependencies map each type it uses to one of these
locators.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			for i, locator := range app.Registry.Locators() {
				mod, _ := app.Registry.Module(locator)
				if i > 0 {
					fmt.Fprintln(w)
				}
				fmt.Fprintln(w, TitleStyle.Render(locator))
				fmt.Fprintf(w, "  %s %s\n", KeyStyle.Render("widgets:  "), typeList(mod.WidgetTypes()))
				fmt.Fprintf(w, "  %s %s\n", KeyStyle.Render("providers:"), typeList(mod.ProviderTypes()))
			}
			return nil
		},
	}
}

func typeList(names []string) string {
	if len(names) == 0 {
		return SubtitleStyle.Render("(none)")
	}
	return strings.Join(names, ", ")
}
