// Package command provides the corex-cli command tree.
//
// It uses urfave/cli/v2 for command parsing and supports both single-command
// mode and the interactive shell. Global settings resolve in the order flag,
// environment, CLI config file, built-in default.
package command
