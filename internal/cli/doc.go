// Package cli implements the tglog command line.
//
// Configuration is layered: the optional --config file, then the TGLOG_*
// environment variables, then the --token, --chat-id and --log-level flags.
// Exit codes:
//   - 0: success
//   - 1: any error (invalid config, rejected credentials, failed delivery)
package cli
