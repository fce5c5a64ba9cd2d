// Package command defines the devserve command line using urfave/cli/v2.
//
//   - root.go: the app, its flags and the serve action
//   - config.go: the config subcommand group (show, validate)
//
// Flags are turned into dotted configuration keys and applied on top of the
// file and environment layers, so every flag has an equivalent config key.
package command
