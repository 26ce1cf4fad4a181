// Package handlers implements the business logic for CLI commands.
//
// Each handler loads configuration, wires the repository, the Heat client
// and the conductor, runs one operation and renders the result. External
// collaborators are created through package level factory variables so
// tests can replace them.
package handlers
