package report

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rakeshthota234/Online-Retail-Application/internal/retail"
)

// Named is a predefined report taking string parameters.
type Named struct {
	Name        string
	Description string
	Params      []string
	build       func(args map[string]string) (Query, error)
}

// Build returns the query for args. Every parameter in n.Params is required.
func (n Named) Build(args map[string]string) (Query, error) {
	for _, p := range n.Params {
		if args[p] == "" {
			return nil, invalid("report %s: missing parameter %q", n.Name, p)
		}
	}
	return n.build(args)
}

// Reports lists the predefined reports.
var Reports = []Named{
	{
		Name:        "customer-orders",
		Description: "Orders placed by a customer, oldest first",
		Params:      []string{"email"},
		build: func(args map[string]string) (Query, error) {
			return Select{
				From:    "orders",
				Filter:  Equals{Column: "email", Value: retail.NormalizeEmail(args["email"])},
				OrderBy: []Order{{Column: "date_of_order"}},
			}, nil
		},
	},
	{
		Name:        "customer-billing",
		Description: "Billing records of a customer with the order total they were computed from",
		Params:      []string{"email"},
		build: func(args map[string]string) (Query, error) {
			return Join{
				Left:  "billing",
				Right: "orders",
				On:    On{LeftColumn: "order_id", RightColumn: "order_id"},
				Columns: []string{
					"billing.billing_id",
					"billing.order_id",
					"billing.payment_id",
					"orders.total_amount",
					"billing.voucher_id",
					"billing.final_amount",
					"billing.status_of_payment",
				},
				Filter: Equals{Column: "billing.email", Value: retail.NormalizeEmail(args["email"])},
			}, nil
		},
	},
	{
		Name:        "category-items",
		Description: "Items in a category",
		Params:      []string{"category"},
		build: func(args map[string]string) (Query, error) {
			return Select{
				From:   "items",
				Filter: Equals{Column: "item_category", Value: args["category"]},
			}, nil
		},
	},
	{
		Name:        "order-lines",
		Description: "Lines of an order with item names",
		Params:      []string{"order_id"},
		build: func(args map[string]string) (Query, error) {
			id, err := strconv.ParseInt(args["order_id"], 10, 64)
			if err != nil {
				return nil, invalid("order_id %q is not a number", args["order_id"])
			}
			return Join{
				Left:    "order_item",
				Right:   "items",
				On:      On{LeftColumn: "item_id", RightColumn: "item_id"},
				Columns: []string{"order_item.item_id", "items.item_name", "order_item.price", "order_item.quantity"},
				Filter:  Equals{Column: "order_item.order_id", Value: id},
			}, nil
		},
	},
}

// Lookup returns the predefined report called name.
func Lookup(name string) (Named, bool) {
	for _, n := range Reports {
		if n.Name == name {
			return n, true
		}
	}
	return Named{}, false
}

// RunNamed builds and runs the predefined report called name.
func (r *Runner) RunNamed(ctx context.Context, name string, args map[string]string) (Table, error) {
	n, ok := Lookup(name)
	if !ok {
		return Table{}, retail.NewNotFoundError("report", "", fmt.Sprintf("no report named %q", name))
	}
	q, err := n.Build(args)
	if err != nil {
		return Table{}, err
	}
	return r.Run(ctx, q)
}
