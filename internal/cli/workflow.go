package cli

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rakeshthota234/Online-Retail-Application/internal/checkout"
	"github.com/rakeshthota234/Online-Retail-Application/internal/retail"
)

// registrationFlags are the customer fields collected at checkout.
type registrationFlags struct {
	email       string
	password    string
	firstName   string
	lastName    string
	age         int
	sex         string
	phone       string
	zip         int
	city        string
	state       string
	county      string
	addressID   int64
	fullAddress string
}

func (f *registrationFlags) bind(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.email, "email", "", "customer email (required)")
	fl.StringVar(&f.password, "password", "", "customer password (required)")
	fl.StringVar(&f.firstName, "first-name", "", "first name (required)")
	fl.StringVar(&f.lastName, "last-name", "", "last name")
	fl.IntVar(&f.age, "age", 0, "age in years")
	fl.StringVar(&f.sex, "sex", "", "M or F")
	fl.StringVar(&f.phone, "phone", "", "ten digit phone number")
	fl.IntVar(&f.zip, "zip", 0, "five digit zip code")
	fl.StringVar(&f.city, "city", "", "city")
	fl.StringVar(&f.state, "state", "", "state")
	fl.StringVar(&f.county, "county", "", "county")
	fl.Int64Var(&f.addressID, "address-id", 1, "address number for this customer")
	fl.StringVar(&f.fullAddress, "address", "", "street address")
	for _, name := range []string{"email", "password", "first-name"} {
		_ = cmd.MarkFlagRequired(name)
	}
}

func (f *registrationFlags) registration() checkout.Registration {
	return checkout.Registration{
		Customer: retail.Customer{
			Email:     f.email,
			Password:  f.password,
			FirstName: f.firstName,
			LastName:  f.lastName,
			Age:       f.age,
			Sex:       f.sex,
			Phone:     f.phone,
		},
		Zipcode:     retail.Zipcode{Zip: f.zip, City: f.city, State: f.state, County: f.county},
		AddressID:   f.addressID,
		FullAddress: f.fullAddress,
	}
}

// orderFlags describe the order to place.
type orderFlags struct {
	addressID int64
	total     string
	status    string
	items     []int
}

func (f *orderFlags) bind(cmd *cobra.Command, withAddress bool) {
	fl := cmd.Flags()
	if withAddress {
		fl.Int64Var(&f.addressID, "address-id", 1, "delivery address number")
	}
	fl.StringVar(&f.total, "total", "", "order total (default: sum of items)")
	fl.StringVar(&f.status, "status", "", "order status (default Successful)")
	fl.IntSliceVar(&f.items, "items", nil, "item ids; repeat an id to order more than one")
}

func (f *orderFlags) request() (checkout.OrderRequest, error) {
	req := checkout.OrderRequest{
		AddressID: f.addressID,
		Status:    retail.OrderStatus(f.status),
	}
	for _, id := range f.items {
		req.Items = append(req.Items, int64(id))
	}
	if f.total != "" {
		total, err := decimal.NewFromString(f.total)
		if err != nil {
			return req, NewExitError(ExitCommandError, fmt.Sprintf("invalid total %q", f.total))
		}
		req.Total = total
	}
	return req, nil
}

// SessionResult reports the session after a workflow.
type SessionResult struct {
	retail.Session
	OrderID   int64 `json:"order_id,omitempty"`
	PaymentID int64 `json:"payment_id,omitempty"`
}

// WriteText implements textWriter.
func (r SessionResult) WriteText(w io.Writer) error {
	fmt.Fprintf(w, "Session %s for %s\n", r.ID, r.Email)
	if r.OrderID != 0 {
		fmt.Fprintf(w, "Order %d placed\n", r.OrderID)
	}
	if r.PaymentID != 0 {
		fmt.Fprintf(w, "Payment %d recorded\n", r.PaymentID)
	}
	return nil
}

// BillingResult reports a finalized billing record.
type BillingResult struct {
	retail.Billing
}

// WriteText implements textWriter.
func (r BillingResult) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Billing %d: order %d, payment %d, voucher %s, final amount %s (%s)\n",
		r.BillingID, r.OrderID, r.PaymentID, r.VoucherLabel(), r.FinalAmount.StringFixed(2), r.Status)
	return err
}

// NewRegisterCommand creates the register command.
func NewRegisterCommand(rootOpts *RootOptions) *cobra.Command {
	var reg registrationFlags

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a customer with their address",
		Long: `Store a customer, their zip code and address in one transaction.
The password is stored as a bcrypt hash.

Example:
  retail register --email a@b.com --password s3cret --first-name Ada \
    --age 36 --sex F --phone 5551234567 --zip 10001 --address "1 Main St"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer a.close()

			sess, err := a.checkout().Register(cmd.Context(), reg.registration())
			if err != nil {
				return a.out.Fail("registration failed", err)
			}
			return a.out.Success(SessionResult{Session: sess})
		},
	}
	reg.bind(cmd)
	return cmd
}

// NewCheckoutCommand creates the checkout command.
func NewCheckoutCommand(rootOpts *RootOptions) *cobra.Command {
	var reg registrationFlags
	var order orderFlags

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Register a new customer and place their first order",
		Long: `Register a customer and place an order at the registered address in
a single transaction. Either both are stored or neither is.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := order.request()
			if err != nil {
				return err
			}
			a, err := openApp(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer a.close()

			sess, orderID, err := a.checkout().Checkout(cmd.Context(), reg.registration(), req)
			if err != nil {
				return a.out.Fail("checkout failed", err)
			}
			return a.out.Success(SessionResult{Session: sess, OrderID: orderID})
		},
	}
	reg.bind(cmd)
	order.bind(cmd, false)
	return cmd
}

// NewOrderCommand creates the order command.
func NewOrderCommand(rootOpts *RootOptions) *cobra.Command {
	var email string
	var order orderFlags

	cmd := &cobra.Command{
		Use:   "order",
		Short: "Place an order for a registered customer",
		Long: `Place an order for an existing customer and address.

Example:
  retail order --email a@b.com --items 3,3,7
  retail order --email a@b.com --total 10.99`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := order.request()
			if err != nil {
				return err
			}
			a, err := openApp(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer a.close()

			sess, orderID, err := a.checkout().PlaceOrder(cmd.Context(), retail.NewSession(email), req)
			if err != nil {
				return a.out.Fail("order failed", err)
			}
			return a.out.Success(SessionResult{Session: sess, OrderID: orderID})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "customer email (required)")
	_ = cmd.MarkFlagRequired("email")
	order.bind(cmd, true)
	return cmd
}

// NewPayCommand creates the pay command.
func NewPayCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		email string
		req   checkout.PaymentRequest
	)

	cmd := &cobra.Command{
		Use:   "pay",
		Short: "Record a cash or card payment",
		Long: `Record a payment for a customer. Cash payments take no card number;
card payments need a sixteen digit card number.

Example:
  retail pay --email a@b.com --cash
  retail pay --email a@b.com --card 4111111111111111`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer a.close()

			sess, err := a.checkout().RecordPayment(cmd.Context(), retail.NewSession(email), req)
			if err != nil {
				return a.out.Fail("payment failed", err)
			}
			return a.out.Success(SessionResult{Session: sess, PaymentID: sess.ActivePaymentID})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "customer email (required)")
	cmd.Flags().BoolVar(&req.IsCash, "cash", false, "pay in cash")
	cmd.Flags().StringVar(&req.CardNumber, "card", "", "credit card number")
	cmd.Flags().Int64Var(&req.PaymentID, "payment-id", 0, "use this payment id instead of allocating one")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

// NewBillCommand creates the bill command.
func NewBillCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		email  string
		req    checkout.BillingRequest
		status string
	)

	cmd := &cobra.Command{
		Use:   "bill",
		Short: "Finalize billing for an order and payment",
		Long: `Join an order and a payment of the customer into a billing record.
Without --order-id or --payment-id the customer's latest order and payment
are used. A voucher's discount is subtracted from the order total.

Example:
  retail bill --email a@b.com --voucher SAVE5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer a.close()

			req.Status = retail.PaymentStatus(status)
			billing, err := a.checkout().FinalizeBilling(cmd.Context(), retail.NewSession(email), req)
			if err != nil {
				return a.out.Fail("billing failed", err)
			}
			return a.out.Success(BillingResult{Billing: billing})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "customer email (required)")
	cmd.Flags().Int64Var(&req.OrderID, "order-id", 0, "order to bill (default: latest)")
	cmd.Flags().Int64Var(&req.PaymentID, "payment-id", 0, "payment to bill (default: latest)")
	cmd.Flags().StringVar(&req.VoucherID, "voucher", "", "voucher id to apply")
	cmd.Flags().StringVar(&status, "status", "", "payment status (default Successful)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

// VoucherResult reports an added voucher.
type VoucherResult struct {
	retail.Voucher
}

// WriteText implements textWriter.
func (r VoucherResult) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Voucher %s added (discount %s)\n", r.VoucherID, r.DiscountPrice.StringFixed(2))
	return err
}

// NewVoucherCommand creates the voucher command group.
func NewVoucherCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "voucher",
		Short: "Manage vouchers",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <id> <discount>",
		Short: "Add a fixed-discount voucher",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			discount, err := decimal.NewFromString(args[1])
			if err != nil {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid discount %q", args[1]))
			}
			a, err := openApp(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer a.close()

			v := retail.Voucher{VoucherID: args[0], DiscountPrice: discount}
			if err := a.checkout().AddVoucher(cmd.Context(), v); err != nil {
				return a.out.Fail("voucher add failed", err)
			}
			return a.out.Success(VoucherResult{Voucher: v})
		},
	})

	return cmd
}
