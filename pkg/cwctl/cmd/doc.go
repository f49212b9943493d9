// Package cmd wires the cwctl command tree. Commands resolve their
// server and credentials from the shared runtime state stored on the
// root command context.
package cmd
