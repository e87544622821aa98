// Package confloader provides configuration loading mechanism.
//
// This package implements a layered configuration loader built on
// koanf, plus a file watcher for picking up edits to the config file
// at runtime.
//
// Features:
//
//   - Sources: YAML files, environment variables, in-memory maps
//   - Watch Support: debounced change notification on the config file
//   - Type Safety: unmarshaling into typed structs via koanf tags
//
// Priority (highest to lowest):
//
//  1. In-memory map overrides (flags, tests)
//  2. Environment variables
//  3. Configuration file
//  4. Default values on the target struct
package confloader
