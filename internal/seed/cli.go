package seed

import "os"

// ShowHelp prints usage information for the seed tool.
func ShowHelp() {
	os.Stdout.WriteString(`Rendezvous Sample Data Loader
=============================

Loads the sample schedule, results, gallery photo and welcome
announcement into the configured database and blob store.

Usage:
  go run ./cmd/seed [options]

Options:
  -config string
        YAML config file (sets RDV_CONFIG; RDV_* env vars still apply)
  -reset
        Delete every record and its stored files before loading
  -verbose
        Log each created record
  -help
        Show this help message

Examples:
  # Load into the default sqlite database
  go run ./cmd/seed

  # Start over against a config file
  go run ./cmd/seed -config rendezvous.yaml -reset
`)
}
