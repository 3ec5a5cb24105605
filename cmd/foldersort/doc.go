// Package main hosts the foldersort CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once, then hands off to the
// internal packages: organize runs the engine under a directory lock with
// an optional journal, rules prints the resolved rule table, history reads
// the journal, check runs preflight and config scaffolds a sample file.
package main
