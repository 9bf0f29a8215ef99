// Package report is the read-only reporting endpoint.
//
// Callers describe what to read with a small structured query model instead
// of SQL text:
//
//	Select{
//	  From:    "orders",
//	  Columns: []string{"order_id", "total_amount"},
//	  Filter:  Equals{Column: "email", Value: "a@b.com"},
//	}
//
// compiles to
//
//	SELECT order_id, total_amount FROM orders
//	WHERE email = ?
//	ORDER BY order_id ASC LIMIT ?
//
// Table and column names are checked against store.Tables before they reach
// SQL text. Values are always bound as parameters. Every query carries an
// ORDER BY ending in the table key, so results are deterministic, and a LIMIT
// capped by the runner.
//
// Query and Predicate are sealed interfaces: only this package implements
// them, so Compile can switch exhaustively.
//
// Runner executes queries on its own database handle opened with
// _query_only=1; SQLite refuses any write made through it.
package report
