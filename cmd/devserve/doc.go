// Package main provides the entry point for devserve.
//
// devserve serves a local web application directory, over HTTPS when a
// certificate is available and over HTTP otherwise:
//
//   - serves the web directory next to the executable unless --root is given
//   - reuses cert.pem and key.pem next to the executable, or generates them
//     with openssl
//   - falls back to plain HTTP when openssl is missing or the pair is unusable
//   - opens the default browser at the served URL
//   - stops cleanly on Ctrl+C with exit status 0
//
// Usage:
//
//	devserve [flags]
//	devserve --root ./dist --port 9443
//	devserve --config devserve.toml
//	devserve config show
//
// Exit status is 1 when the content directory is missing, the port cannot be
// bound or the configuration is invalid.
package main
