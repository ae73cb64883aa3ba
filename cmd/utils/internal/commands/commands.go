package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/appetiteclub/medmeal/pkg/enums/orderstatus"
	"github.com/aquamarinepk/aqm"
)

func newClient(config *aqm.Config) *Client {
	baseURL, _ := config.GetString("api.url")
	return NewClient(baseURL)
}

// Orders prints the service's orders, optionally filtered by status.
func Orders(ctx context.Context, config *aqm.Config, out io.Writer, status string) error {
	orders, err := newClient(config).ListOrders(ctx, status)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPATIENT\tROOM\tSTATUS\tTOTAL\tCREATED")
	for _, o := range orders {
		fmt.Fprintf(tw, "%s\t%s\t%s-%s\t%s\t%d\t%s\n",
			o.ID, o.PatientName, o.Room, o.Bed, o.Status, o.Total, o.CreatedAt.Format("15:04"))
	}
	return tw.Flush()
}

// Advance moves an order one step along its lifecycle.
func Advance(ctx context.Context, config *aqm.Config, logger aqm.Logger, id string) error {
	if id == "" {
		return fmt.Errorf("order id is required")
	}
	order, err := newClient(config).AdvanceOrder(ctx, id)
	if err != nil {
		return err
	}
	logger.Info("order advanced", "id", order.ID, "status", order.Status)
	return nil
}

// Production prints the kitchen prep list.
func Production(ctx context.Context, config *aqm.Config, out io.Writer, status string) error {
	lines, err := newClient(config).Production(ctx, status)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ITEM\tNAME\tQTY")
	for _, l := range lines {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", l.MenuItemID, l.Name, l.Quantity)
	}
	return tw.Flush()
}

// Transitions prints the order lifecycle. It needs no running service.
func Transitions(out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FROM\tLABEL\tALLOWED")
	for _, from := range orderstatus.All {
		var allowed []string
		for _, to := range orderstatus.All {
			if orderstatus.CanTransition(from, to) {
				allowed = append(allowed, to.Name)
			}
		}
		targets := strings.Join(allowed, ", ")
		if from.IsTerminal() {
			targets = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", from.Name, from.Label(), targets)
	}
	return tw.Flush()
}
