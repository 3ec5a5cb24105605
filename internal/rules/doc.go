// Package rules holds the ordered category table that maps file extensions to
// destination folders.
//
// A Table is built once from configuration and never mutated afterwards. Lookups
// are first-match-wins in table order, so an extension listed under two
// categories always resolves to the earlier one. Extensions are stored in
// normalized form: lowercase with a single leading dot.
package rules
