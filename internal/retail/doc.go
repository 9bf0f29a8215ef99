// Package retail defines the domain model of the store: catalog items,
// customers and their addresses, orders, payments, vouchers and billing
// records, plus the status vocabularies, the session context threaded through
// checkout workflows, and the typed errors every layer reports.
//
// Money is carried as decimal.Decimal so that values such as 19.99 survive a
// round trip through the database unchanged.
package retail
