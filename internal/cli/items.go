package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andy/swiftbill/internal/domain"
)

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "Manage the item and service catalog",
	Long:  `List, search, add, edit, and delete catalog items used to fill invoice lines.`,
}

var itemsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog items",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		out := cmd.OutOrStdout()
		term, _ := cmd.Flags().GetString("search")

		items, err := appInstance.ItemService.Search(ctx, term)
		if err != nil {
			return fmt.Errorf("failed to list items: %w", err)
		}

		if len(items) == 0 {
			fmt.Fprintln(out, "No items found")
			return nil
		}

		fmt.Fprintf(out, "%-9s %-25s %-35s %12s %-8s\n", "ID", "Name", "Description", "Price", "Unit")
		fmt.Fprintln(out, "--------------------------------------------------------------------------------------------")

		for _, it := range items {
			fmt.Fprintf(out, "%-9s %-25s %-35s %12s %-8s\n",
				shortID(it.ID),
				truncate(it.Name, 25),
				truncate(it.Description, 35),
				domain.FormatCurrency(it.UnitPrice),
				it.Unit,
			)
		}

		fmt.Fprintf(out, "\nTotal: %d item(s)\n", len(items))
		return nil
	},
}

var itemsAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a catalog item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		in := domain.ItemInput{Name: args[0]}
		in.UnitPrice, _ = cmd.Flags().GetString("price")
		in.Unit, _ = cmd.Flags().GetString("unit")
		in.Description, _ = cmd.Flags().GetString("description")

		item, err := appInstance.ItemService.Create(ctx, in)
		if err != nil {
			return explain(err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Item created: %s (ID: %s)\n", item.Name, shortID(item.ID))
		fmt.Fprintf(cmd.OutOrStdout(), "  Price: %s per %s\n", domain.FormatCurrency(item.UnitPrice), item.Unit)
		return nil
	},
}

var itemsEditCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Edit a catalog item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		item, err := findItem(ctx, args[0])
		if err != nil {
			return err
		}

		in := domain.ItemInput{
			Name:        item.Name,
			Description: item.Description,
			UnitPrice:   strconv.FormatFloat(item.UnitPrice, 'f', -1, 64),
			Unit:        string(item.Unit),
		}
		if cmd.Flags().Changed("name") {
			in.Name, _ = cmd.Flags().GetString("name")
		}
		if cmd.Flags().Changed("description") {
			in.Description, _ = cmd.Flags().GetString("description")
		}
		if cmd.Flags().Changed("price") {
			in.UnitPrice, _ = cmd.Flags().GetString("price")
		}
		if cmd.Flags().Changed("unit") {
			in.Unit, _ = cmd.Flags().GetString("unit")
		}

		updated, err := appInstance.ItemService.Update(ctx, item.ID, in)
		if err != nil {
			return explain(err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Item updated: %s\n", updated.Name)
		return nil
	},
}

var itemsDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a catalog item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		item, err := findItem(ctx, args[0])
		if err != nil {
			return err
		}

		if !confirm(cmd, fmt.Sprintf("Delete item %q?", item.Name)) {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}

		if err := appInstance.ItemService.Delete(ctx, item.ID); err != nil {
			return fmt.Errorf("failed to delete item: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Item deleted: %s\n", item.Name)
		return nil
	},
}

func findItem(ctx context.Context, ref string) (domain.Item, error) {
	items, err := appInstance.ItemService.List(ctx)
	if err != nil {
		return domain.Item{}, fmt.Errorf("failed to load items: %w", err)
	}
	return resolve(items, ref, "item", itemID, func(i domain.Item) string { return i.Name })
}

func unitNames() string {
	names := make([]string, len(domain.Units))
	for i, u := range domain.Units {
		names[i] = string(u)
	}
	return strings.Join(names, ", ")
}

func init() {
	itemsCmd.AddCommand(itemsListCmd)
	itemsCmd.AddCommand(itemsAddCmd)
	itemsCmd.AddCommand(itemsEditCmd)
	itemsCmd.AddCommand(itemsDeleteCmd)

	itemsListCmd.Flags().String("search", "", "Filter by name or description")

	for _, c := range []*cobra.Command{itemsAddCmd, itemsEditCmd} {
		c.Flags().String("price", "", "Unit price")
		c.Flags().String("unit", "", "Unit: "+unitNames())
		c.Flags().String("description", "", "Description")
	}
	itemsEditCmd.Flags().String("name", "", "New name")

	itemsDeleteCmd.Flags().BoolP("yes", "y", false, "Skip confirmation")
}
