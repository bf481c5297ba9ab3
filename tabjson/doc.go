// Package tabjson decodes newline-delimited JSON (NDJSON) or a JSON array
// of objects into a strongly typed columnar table.
//
// The pipeline is schema-on-read: a bounded sample of records determines
// which columns exist and what type each holds, then the full input is
// decoded in fixed-size batches against that fixed schema.
//
// # Pipeline
//
//	raw bytes -> record spans (escape-aware scan)
//	          -> sampled records (tokenize + resolve)
//	          -> fixed schema (first-seen column order, widening promotion)
//	          -> batches (parallel tokenize + coerce)
//	          -> table (rows in original input order)
//
// # Types
//
// Columns are one of bool, int64, float64 or utf8. Integers always keep
// full 64-bit precision. A column that shows both ints and floats in the
// sample widens to float64; any clash with strings or booleans falls back
// to utf8. All columns are nullable: a record missing a column's key
// stores null there.
//
// # Errors
//
// Structural problems (unterminated string, unbalanced braces, malformed
// record, empty input) abort the whole read; no partial table is returned.
// A value that cannot be coerced to its column's fixed type is soft: the
// cell becomes null and Reader.Conflicts counts it.
//
// # Example
//
//	t, err := tabjson.NewReader(f).
//		InferSchemaLen(100).
//		WithBatchSize(8192).
//		Finish()
package tabjson
