// Package store provides SQLite-backed storage for the retail schema.
//
// The schema (schema.sql) holds twelve tables: the ten entity tables
// (item_categories, items, customer, zipcode, address, payment, orders,
// order_item, voucher, billing) and the two status lookup tables
// (order_status, payment_status), which are seeded with the allowed values.
//
// # Integrity
//
//   - Money columns are decimal(10,2) with CHECK (>= 0) constraints
//   - customer.age has CHECK (age > 0)
//   - Every foreign key is ON DELETE RESTRICT ON UPDATE CASCADE
//   - orders and payment carry UNIQUE(email, id) so billing and order_item
//     can reference them by (email, id)
//
// Constraint failures reported by SQLite are translated into *retail.Error
// with CodeConstraintViolation, the table and the constraint kind.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Writes that belong to one workflow go through WithTx so they commit or roll
// back together. Functions taking a Querier run against either the database
// or an open transaction.
package store
