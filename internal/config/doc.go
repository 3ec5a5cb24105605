// Package config loads, normalizes, and validates foldersort configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and resolves the ordered rule table from either
// [[rules]] tables, an external JSON rule file, or the built-in defaults.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and a validated rule table.
package config
