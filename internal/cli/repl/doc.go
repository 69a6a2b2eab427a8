// Package repl provides the interactive shell of corex-cli.
//
// Each input line is split into arguments and handed to an Executor, which
// runs it as a regular corex-cli command line. History persists to
// ~/.corex/history between sessions.
package repl
