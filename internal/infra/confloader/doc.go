// Package confloader loads configuration with koanf.
//
// Sources, lowest priority first:
//
//  1. defaults already present in the target struct
//  2. the YAML configuration file
//  3. environment variables (COREX_ prefix)
//  4. explicit overrides passed to LoadMap, usually command-line flags
//
// Environment names are the upper-cased key path with dots replaced by
// underscores: COREX_SERVER_HTTP_READ_TIMEOUT sets server.http.read_timeout.
//
// Watcher reports changes of the configuration file so that reloadable
// settings, such as the log level, can be applied without a restart.
package confloader
