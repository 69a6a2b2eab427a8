// Package config defines the corex-server configuration.
//
//   - spec.go: ServerConfig struct definition
//   - default.go: default values
//   - verify.go: validation
//   - sanitize.go: secret masking for logs
//   - convert.go: conversion to component configurations
//
// Configuration is loaded by internal/infra/confloader from a YAML file,
// COREX_ environment variables and command-line flags.
package config
