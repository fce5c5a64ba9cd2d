// Package config defines the devserve configuration structure.
//
//   - spec.go: ServerConfig struct definition
//   - default.go: default values (port 8443; web/, cert.pem and key.pem
//     next to the executable)
//   - verify.go: static validation before anything touches the network
//   - export.go: nested map view for printing the effective configuration
//
// Configuration is loaded via internal/infra/confloader with priority
// flags > environment (DEVSERVE_*) > file > defaults.
package config
