// Package confloader loads devserve configuration with koanf.
//
// Priority (highest to lowest):
//
//  1. Overrides (command-line flags, via WithOverrides)
//  2. Environment variables (DEVSERVE_SECTION_KEY)
//  3. Configuration file (YAML, or TOML by .toml extension)
//  4. Values already present in the target struct (defaults)
package confloader
