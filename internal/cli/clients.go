package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andy/swiftbill/internal/domain"
)

var clientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "Manage clients",
	Long:  `List, search, add, edit, and delete clients.`,
}

var clientsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List clients",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		out := cmd.OutOrStdout()
		term, _ := cmd.Flags().GetString("search")

		clients, err := appInstance.ClientService.Search(ctx, term)
		if err != nil {
			return fmt.Errorf("failed to list clients: %w", err)
		}

		if len(clients) == 0 {
			fmt.Fprintln(out, "No clients found")
			return nil
		}

		// Print table header
		fmt.Fprintf(out, "%-9s %-25s %-20s %-28s %-15s\n", "ID", "Name", "Contact", "Email", "Phone")
		fmt.Fprintln(out, "-----------------------------------------------------------------------------------------------------")

		for _, c := range clients {
			fmt.Fprintf(out, "%-9s %-25s %-20s %-28s %-15s\n",
				shortID(c.ID),
				truncate(c.Name, 25),
				truncate(c.ContactPerson, 20),
				truncate(c.Email, 28),
				truncate(c.Phone, 15),
			)
		}

		fmt.Fprintf(out, "\nTotal: %d client(s)\n", len(clients))
		return nil
	},
}

var clientsAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a new client",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		in := domain.ClientInput{Name: args[0]}
		in.Email, _ = cmd.Flags().GetString("email")
		in.ContactPerson, _ = cmd.Flags().GetString("contact")
		in.Phone, _ = cmd.Flags().GetString("phone")
		in.Address, _ = cmd.Flags().GetString("address")
		in.TaxID, _ = cmd.Flags().GetString("tax-id")

		client, err := appInstance.ClientService.Create(ctx, in)
		if err != nil {
			return explain(err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Client created: %s (ID: %s)\n", client.Name, shortID(client.ID))
		return nil
	},
}

var clientsEditCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Edit an existing client",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		client, err := findClient(ctx, args[0])
		if err != nil {
			return err
		}

		in := domain.ClientInput{
			Name:          client.Name,
			ContactPerson: client.ContactPerson,
			Email:         client.Email,
			Phone:         client.Phone,
			Address:       client.Address,
			TaxID:         client.TaxID,
		}

		// Update fields if flags provided
		flags := map[string]*string{
			"name":    &in.Name,
			"email":   &in.Email,
			"contact": &in.ContactPerson,
			"phone":   &in.Phone,
			"address": &in.Address,
			"tax-id":  &in.TaxID,
		}
		for name, field := range flags {
			if cmd.Flags().Changed(name) {
				*field, _ = cmd.Flags().GetString(name)
			}
		}

		updated, err := appInstance.ClientService.Update(ctx, client.ID, in)
		if err != nil {
			return explain(err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Client updated: %s\n", updated.Name)
		return nil
	},
}

var clientsDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a client (invoices are kept)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		client, err := findClient(ctx, args[0])
		if err != nil {
			return err
		}

		if !confirm(cmd, fmt.Sprintf("Delete client %q?", client.Name)) {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}

		if err := appInstance.ClientService.Delete(ctx, client.ID); err != nil {
			return fmt.Errorf("failed to delete client: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Client deleted: %s\n", client.Name)
		return nil
	},
}

// findClient resolves an id, id prefix, or exact name
func findClient(ctx context.Context, ref string) (domain.Client, error) {
	clients, err := appInstance.ClientService.List(ctx)
	if err != nil {
		return domain.Client{}, fmt.Errorf("failed to load clients: %w", err)
	}
	return resolve(clients, ref, "client", clientID, clientName)
}

func init() {
	clientsCmd.AddCommand(clientsListCmd)
	clientsCmd.AddCommand(clientsAddCmd)
	clientsCmd.AddCommand(clientsEditCmd)
	clientsCmd.AddCommand(clientsDeleteCmd)

	// List flags
	clientsListCmd.Flags().String("search", "", "Filter by name, email, or contact person")

	// Add and edit share the same fields
	for _, c := range []*cobra.Command{clientsAddCmd, clientsEditCmd} {
		c.Flags().String("email", "", "Billing email")
		c.Flags().String("contact", "", "Contact person")
		c.Flags().String("phone", "", "Phone number")
		c.Flags().String("address", "", "Postal address")
		c.Flags().String("tax-id", "", "Tax ID")
	}
	clientsEditCmd.Flags().String("name", "", "New name")

	clientsDeleteCmd.Flags().BoolP("yes", "y", false, "Skip confirmation")
}
