// Package config provides the corex-cli configuration file.
//
// The file lives at ~/.corex/cli.yaml by default and stores the server
// address, the default caller, the output format and named accounts:
//
//	server: http://127.0.0.1:5180
//	caller: alice
//	output: table
//	accounts:
//	  alice: 2Bv...
//
// Command-line flags and COREX_* environment variables override it.
package config
