package cli

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/linemk/shop-admin/internal/domain/models"
	"github.com/linemk/shop-admin/internal/service"
	"github.com/spf13/cobra"
)

// view - в CLI одно представление на процесс
const view = "cli"

func newOrdersCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List orders and move them through their lifecycle",
	}
	cmd.AddCommand(
		newOrdersListCmd(e),
		newOrderStatusCmd(e),
		newOrderApproveCmd(e),
		newOrderCancelCmd(e),
	)
	return cmd
}

func newOrdersListCmd(e *env) *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show orders, optionally filtered by name, order number or phone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			token, err := e.token(ctx)
			if err != nil {
				return err
			}
			list, err := e.orders.List(ctx, token, query)
			if err != nil {
				return e.fail(ctx, err)
			}
			if list.Empty() {
				if query != "" {
					fmt.Fprintf(e.out, "No orders match %q\n", query)
				} else {
					fmt.Fprintln(e.out, "No orders yet")
				}
				return nil
			}
			return printOrders(e.out, list.Filtered)
		},
	}

	cmd.Flags().StringVar(&query, "q", "", "search by customer name, order number or phone")
	return cmd
}

func printOrders(out io.Writer, orders []models.Order) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tCUSTOMER\tPHONE\tTOTAL\tSTATUS\tITEMS")
	for _, o := range orders {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%.2f\t%s\t%d\n",
			o.ID,
			o.CreatedAt.Date(),
			o.CustomerName,
			o.CustomerPhone,
			o.TotalPrice,
			o.Status.Label(),
			len(o.Items()),
		)
	}
	return tw.Flush()
}

func newOrderStatusCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "status ID STATUS",
		Short: "Set order status (pending, processing, shipped, delivered, cancelled)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			status, err := models.ParseStatus(args[1])
			if err != nil {
				return err
			}
			token, err := e.token(ctx)
			if err != nil {
				return err
			}
			order, err := e.orders.ChangeStatus(ctx, token, view, id, status)
			if err != nil {
				return e.fail(ctx, err)
			}
			fmt.Fprintf(e.out, "Order #%d is now %s\n", order.ID, order.Status.Label())
			return nil
		},
	}
}

func newOrderApproveCmd(e *env) *cobra.Command {
	var weight string

	cmd := &cobra.Command{
		Use:   "approve ID",
		Short: "Approve a pending order and create its shipment",
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
			res, err := e.orders.Approve(ctx, token, view, id, weight)
			if err != nil {
				return e.fail(ctx, err)
			}
			fmt.Fprintln(e.out, actionMessage("approved", res))
			return nil
		},
	}

	cmd.Flags().StringVar(&weight, "weight", "", "parcel weight in kg")
	_ = cmd.MarkFlagRequired("weight")
	return cmd
}

func newOrderCancelCmd(e *env) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "cancel ID",
		Short: "Cancel an order (asks for confirmation unless --yes)",
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
			confirmed := yes || e.confirm(fmt.Sprintf("Cancel order #%d?", id))

			res, err := e.orders.Cancel(ctx, token, view, id, confirmed)
			if errors.Is(err, service.ErrConfirmationRequired) {
				fmt.Fprintln(e.out, "Aborted")
				return nil
			}
			if err != nil {
				return e.fail(ctx, err)
			}
			fmt.Fprintln(e.out, actionMessage("cancelled", res))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func actionMessage(verb string, res service.ActionResult) string {
	if res.Notified {
		return fmt.Sprintf("Order #%d %s.", res.Order.ID, verb)
	}
	return fmt.Sprintf("Order #%d %s. No customer notification was sent.", res.Order.ID, verb)
}
