package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newProductsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Browse and remove catalog products",
	}
	cmd.AddCommand(newProductsListCmd(e), newProductDeleteCmd(e))
	return cmd
}

func newProductsListCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show all products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			token, err := e.token(ctx)
			if err != nil {
				return err
			}
			products, err := e.products.List(ctx, token)
			if err != nil {
				return e.fail(ctx, err)
			}
			if len(products) == 0 {
				fmt.Fprintln(e.out, "No products yet")
				return nil
			}

			tw := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tIMAGES")
			for _, p := range products {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%.2f\t%d\n", p.ID, p.Name, p.Category, p.Price, len(p.DisplayGallery()))
			}
			return tw.Flush()
		},
	}
}

func newProductDeleteCmd(e *env) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			token, err := e.token(ctx)
			if err != nil {
				return err
			}
			if !yes && !e.confirm(fmt.Sprintf("Delete product #%d?", id)) {
				fmt.Fprintln(e.out, "Aborted")
				return nil
			}
			if err := e.products.Delete(ctx, token, id); err != nil {
				return e.fail(ctx, err)
			}
			fmt.Fprintf(e.out, "Product #%d deleted\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newProfileCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show the signed-in admin profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			token, err := e.token(ctx)
			if err != nil {
				return err
			}
			profile, _, err := e.settings.Load(ctx, token)
			if err != nil {
				return e.fail(ctx, err)
			}

			tw := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "Email:\t%s\n", profile.Email)
			fmt.Fprintf(tw, "Name:\t%s\n", profile.FullName)
			fmt.Fprintf(tw, "WhatsApp:\t%s\n", profile.WhatsAppNumber)
			fmt.Fprintf(tw, "Role:\t%s\n", profile.Role)
			return tw.Flush()
		},
	}
}
