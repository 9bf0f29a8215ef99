package store

import "slices"

// Table describes a schema table for callers that build SQL from names
// (bulk loading, reports, identifier checks). Only names listed here are ever
// interpolated into SQL text.
type Table struct {
	Name    string
	Columns []string
	// Key lists the columns giving a deterministic row order.
	Key []string
	// Nullable lists columns for which an empty bulk value means NULL.
	Nullable []string
}

// HasColumn reports whether column belongs to t.
func (t Table) HasColumn(column string) bool {
	return slices.Contains(t.Columns, column)
}

// IsNullable reports whether an empty value loads as NULL.
func (t Table) IsNullable(column string) bool {
	return slices.Contains(t.Nullable, column)
}

// Tables lists every table in foreign-key dependency order: each table only
// references tables that precede it.
var Tables = []Table{
	{
		Name:    "item_categories",
		Columns: []string{"item_category"},
		Key:     []string{"item_category"},
	},
	{
		Name:     "items",
		Columns:  []string{"item_id", "item_name", "item_category", "mfg_date", "exp_date", "item_price"},
		Key:      []string{"item_id"},
		Nullable: []string{"item_category", "mfg_date", "exp_date"},
	},
	{
		Name:     "customer",
		Columns:  []string{"email", "password", "first_name", "last_name", "age", "sex", "phone_number"},
		Key:      []string{"email"},
		Nullable: []string{"last_name", "age", "sex"},
	},
	{
		Name:     "zipcode",
		Columns:  []string{"zip", "city", "state", "county"},
		Key:      []string{"zip"},
		Nullable: []string{"city", "state", "county"},
	},
	{
		Name:     "address",
		Columns:  []string{"address_id", "email", "zip", "full_address"},
		Key:      []string{"email", "address_id"},
		Nullable: []string{"zip", "full_address"},
	},
	{
		Name:    "order_status",
		Columns: []string{"status"},
		Key:     []string{"status"},
	},
	{
		Name:    "payment_status",
		Columns: []string{"status"},
		Key:     []string{"status"},
	},
	{
		Name:    "payment",
		Columns: []string{"payment_id", "email", "is_payment_cash", "credit_card_number"},
		Key:     []string{"payment_id"},
	},
	{
		Name:     "orders",
		Columns:  []string{"order_id", "email", "address_id", "total_amount", "date_of_order", "date_of_service", "status_of_order"},
		Key:      []string{"order_id"},
		Nullable: []string{"date_of_order", "date_of_service"},
	},
	{
		Name:    "order_item",
		Columns: []string{"item_id", "order_id", "email", "price", "quantity"},
		Key:     []string{"order_id", "item_id"},
	},
	{
		Name:    "voucher",
		Columns: []string{"voucher_id", "discount_price"},
		Key:     []string{"voucher_id"},
	},
	{
		Name:     "billing",
		Columns:  []string{"billing_id", "order_id", "payment_id", "email", "voucher_id", "final_amount", "status_of_payment"},
		Key:      []string{"billing_id"},
		Nullable: []string{"voucher_id"},
	},
}

// LookupTable returns the table definition for name.
func LookupTable(name string) (Table, bool) {
	for _, t := range Tables {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}

// TableNames returns the table names in dependency order.
func TableNames() []string {
	names := make([]string, len(Tables))
	for i, t := range Tables {
		names[i] = t.Name
	}
	return names
}
