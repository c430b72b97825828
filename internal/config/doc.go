// Package config loads the list of theatres to scrape.
//
// The file is JSON by default; TOML and YAML are accepted based on the file
// extension. Any problem loading the file is returned as a *ConfigError, which
// aborts the run before any theatre is fetched.
package config
