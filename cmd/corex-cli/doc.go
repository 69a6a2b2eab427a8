// Package main provides the entry point for corex-cli.
//
// corex-cli talks to a corex-server over HTTP, either one command per
// invocation or through the interactive shell.
package main
