// Package cli implements the command-line interface for ugl-courses.
//
// The cli package provides the Cobra-based CLI: list (the default), export,
// stats, serve and sources. It loads the configuration, wires the scraper,
// source adapters and aggregator, and applies the filter flags before
// rendering text, JSON or CSV output.
package cli
