// Package config loads showroom's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/showroom/config.toml
//  3. If the config file doesn't exist, fall back to Default()
//  4. If the file exists but fields are missing or empty, use defaults per field
//
// # TOML Format
//
// Every field is optional:
//
//	api_base_url     = "https://fakestoreapi.com"
//	request_timeout  = "10s"
//	rate_limit_rps   = 5
//	rate_limit_burst = 5
//	breaker_failures = 3
//	breaker_cooldown = "15s"
//	storage_path     = "~/.local/share/showroom/storage.toml"
//	log_file         = "~/.local/share/showroom/showroom.log"
//	log_level        = "info"
//	retain_on_error  = false
//
// Durations use time.ParseDuration syntax. Tilde expansion is applied to
// storage_path and log_file.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors, unparsable durations and base URLs without a host
//
// Missing config files are NOT an error. showroom works against the public
// fake store API out of the box.
package config
