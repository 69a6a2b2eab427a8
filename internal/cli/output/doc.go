// Package output provides output formatting for corex-cli.
//
// Formatters render command results as an aligned table, indented JSON or
// YAML. Values implementing encoding.TextMarshaler (account identifiers,
// amounts) are rendered in their text form in tables.
package output
