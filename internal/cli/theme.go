package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andy/swiftbill/internal/domain"
)

var themeCmd = &cobra.Command{
	Use:       "theme [dark|light|toggle]",
	Short:     "Show or change the TUI theme",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"dark", "light", "toggle"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		var (
			theme domain.Theme
			err   error
		)
		switch {
		case len(args) == 0:
			theme, err = appInstance.ThemeService.Get(ctx)
		case args[0] == "toggle":
			theme, err = appInstance.ThemeService.Toggle(ctx)
		default:
			theme, err = appInstance.ThemeService.Set(ctx, args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to update theme: %w", err)
		}

		if len(args) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "Theme: %s\n", theme)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Theme set to %s\n", theme)
		}
		return nil
	},
}
