// Package scenario runs scripted checkout sessions from YAML files.
//
// A scenario seeds a fresh in-memory store, executes a list of workflow steps
// with a fixed clock and a scripted identifier source, then checks
// assertions against the resulting tables. Because every input is fixed, the
// snapshot of orders, payments and billing records is byte-for-byte
// reproducible and can be compared against golden files.
//
// Example:
//
//	name: cash_checkout
//	description: A cash payment bills the full order total
//	date: "2024-03-01"
//	ids: [123456, 234567, 4321]
//	steps:
//	  - register: {email: a@b.com, password: pw, first_name: Ada, age: 36,
//	               sex: F, phone: "5551234567", zip: 10001, address_id: 1}
//	  - order: {address_id: 1, total: "10.99"}
//	  - pay: {cash: true}
//	  - bill: {}
//	assertions:
//	  - type: final_state
//	    table: billing
//	    expect: {final_amount: 10.99, status_of_payment: Successful}
package scenario
