// Package models defines the core domain types for divvy.
//
// Money is represented as decimal.Decimal everywhere. The ledger rounds to
// two decimal places with round-half-even; stores are free to persist
// amounts however they like (the SQLite and Redis backends both use integer
// cents) as long as they round-trip exactly.
//
// Users and groups are identified by opaque string IDs. User IDs are
// server-generated UUIDs; group IDs are caller-supplied.
package models
