// Package cli implements the command-line interface for whatson.
//
// The cli package provides the Cobra-based root command. It loads the theatre config,
// scrapes every theatre's listing page, and writes the per-theatre results as text or
// JSON. The exit code tells scripts whether every theatre was scraped.
package cli
