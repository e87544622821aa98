// Package config provides server configuration for the gate service.
//
//   - spec.go: ServerConfig struct definition
//   - default.go: Default configuration values
//   - verify.go: Business validation (secret length, path existence)
//   - sanitize.go: Log sanitization (hide the pass secret)
//
// Configuration is loaded via internal/infra/confloader and supports
// files, environment variables, and flags.
package config
