package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andy/swiftbill/internal/domain"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage your business profile",
	Long:  `Sign in, edit the company details printed on invoices, and manage the logo.`,
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		p, ok, err := appInstance.ProfileService.Get(context.Background())
		if err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}
		if !ok {
			fmt.Fprintln(out, "Not signed in. Run 'swiftbill profile signin EMAIL'.")
			return nil
		}

		fmt.Fprintf(out, "Company: %s\n", p.CompanyName)
		fmt.Fprintf(out, "Email: %s\n", p.Email)
		fmt.Fprintf(out, "Address: %s\n", p.Address)
		fmt.Fprintf(out, "Phone: %s\n", p.Phone)
		logo := "none"
		if p.Logo != "" {
			logo = "set"
		}
		fmt.Fprintf(out, "Logo: %s\n", logo)
		return nil
	},
}

var profileSignInCmd = &cobra.Command{
	Use:   "signin [email]",
	Short: "Create a local profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		company, _ := cmd.Flags().GetString("company")

		p, err := appInstance.ProfileService.SignIn(context.Background(), args[0], company)
		if err != nil {
			return explain(err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Signed in as %s (%s)\n", p.Email, p.CompanyName)
		return nil
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update company details",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		p, ok, err := appInstance.ProfileService.Get(ctx)
		if err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}
		if !ok {
			return fmt.Errorf("not signed in")
		}

		in := domain.ProfileInput{
			CompanyName: p.CompanyName,
			Email:       p.Email,
			Address:     p.Address,
			Phone:       p.Phone,
		}
		if cmd.Flags().Changed("company") {
			in.CompanyName, _ = cmd.Flags().GetString("company")
		}
		if cmd.Flags().Changed("email") {
			in.Email, _ = cmd.Flags().GetString("email")
		}
		if cmd.Flags().Changed("address") {
			in.Address, _ = cmd.Flags().GetString("address")
		}
		if cmd.Flags().Changed("phone") {
			in.Phone, _ = cmd.Flags().GetString("phone")
		}

		saved, err := appInstance.ProfileService.Save(ctx, in)
		if err != nil {
			return explain(err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Profile saved: %s\n", saved.CompanyName)
		return nil
	},
}

var profileLogoCmd = &cobra.Command{
	Use:   "logo [path]",
	Short: "Set or remove the invoice logo (PNG, JPEG, or GIF)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		if remove, _ := cmd.Flags().GetBool("remove"); remove {
			if _, err := appInstance.ProfileService.RemoveLogo(ctx); err != nil {
				return fmt.Errorf("failed to remove logo: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Logo removed")
			return nil
		}

		if len(args) == 0 {
			return fmt.Errorf("a logo path is required unless --remove is given")
		}

		if _, err := appInstance.ProfileService.SetLogo(ctx, args[0]); err != nil {
			return fmt.Errorf("failed to set logo: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Logo set from %s\n", args[0])
		return nil
	},
}

var profileSignOutCmd = &cobra.Command{
	Use:   "signout",
	Short: "Remove the local profile (business data is kept)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := appInstance.ProfileService.SignOut(context.Background()); err != nil {
			return fmt.Errorf("failed to sign out: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Signed out")
		return nil
	},
}

func init() {
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSignInCmd)
	profileCmd.AddCommand(profileSetCmd)
	profileCmd.AddCommand(profileLogoCmd)
	profileCmd.AddCommand(profileSignOutCmd)

	profileSignInCmd.Flags().String("company", "", "Company name (default \"My Company\")")

	profileSetCmd.Flags().String("company", "", "Company name")
	profileSetCmd.Flags().String("email", "", "Email")
	profileSetCmd.Flags().String("address", "", "Address")
	profileSetCmd.Flags().String("phone", "", "Phone")

	profileLogoCmd.Flags().Bool("remove", false, "Remove the current logo")
}
